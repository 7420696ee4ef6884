package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/Belphemur/SuperCaptions/internal/client"
	"github.com/Belphemur/SuperCaptions/internal/config"
	"github.com/Belphemur/SuperCaptions/internal/metrics"
	"github.com/Belphemur/SuperCaptions/internal/reporting"
)

// Server exposes the caption client over HTTP
type Server struct {
	echo   *echo.Echo
	client client.Client
	logger zerolog.Logger
}

// NewServer creates a fully configured echo server with request metrics,
// logging, error reporting and a health check.
func NewServer(c client.Client) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		client: c,
		logger: config.GetLogger().With().Str("component", "api").Logger(),
	}
	e.HTTPErrorHandler = s.errorHandler

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())
	s.echo.Use(middleware.BodyLimit("10M"))
	s.echo.Use(middleware.CORS())
	s.echo.Use(requestMetrics())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := s.logger.Debug()
			if v.Error != nil {
				event = s.logger.Warn().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))

	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			// NDJSON is flushed per source and must not be buffered
			return c.Path() == "/api/v1/captions/stream"
		},
	}))
}

func (s *Server) setupRoutes() {
	s.echo.GET("/healthz", s.healthCheck)

	api := s.echo.Group("/api/v1")
	api.GET("/captions", s.searchCaptions)
	api.GET("/captions/stream", s.streamCaptions)
	api.GET("/captions/content", s.captionContent)
	api.GET("/captions/cues", s.captionCues)
	api.POST("/captions/normalize", s.normalizeCaption)

	stremio := s.echo.Group("/stremio")
	stremio.GET("/manifest.json", s.stremioManifest)
	stremio.GET("/subtitles/:type/:id", s.stremioSubtitles)
	stremio.GET("/subtitles/:type/:id/:extra", s.stremioSubtitles)
}

// requestMetrics records request counts and latencies per route template
func requestMetrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = statusOf(err)
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// errorHandler reports server-side failures to Sentry before rendering the error
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if statusOf(err) >= http.StatusInternalServerError {
		reporting.CaptureError(err, map[string]string{
			"route":  c.Path(),
			"method": c.Request().Method,
		})
	}
	s.echo.DefaultHTTPErrorHandler(err, c)
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"sources": s.client.Sources(),
	})
}

// Handler returns the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves HTTP on address until Shutdown is called.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("Starting HTTP API server")
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down HTTP API server")
	return s.echo.Shutdown(ctx)
}
