package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/netip"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Belphemur/SuperCaptions/internal/captions"
	"github.com/Belphemur/SuperCaptions/internal/models"
)

// searchCaptions aggregates descriptors from every provider.
// GET /api/v1/captions?imdb_id=&tmdb_id=&season=&episode=
func (s *Server) searchCaptions(c echo.Context) error {
	media, err := mediaFromQuery(c)
	if err != nil {
		return err
	}

	found := s.client.SearchCaptions(c.Request().Context(), media)
	s.logger.Debug().Str("media", media.CacheKey()).Int("count", len(found)).Msg("searchCaptions completed")
	return c.JSON(http.StatusOK, found)
}

// streamCaptions writes one JSON line per source as providers complete.
// GET /api/v1/captions/stream?imdb_id=&tmdb_id=&season=&episode=
func (s *Server) streamCaptions(c echo.Context) error {
	media, err := mediaFromQuery(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "application/x-ndjson")
	resp.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(resp)
	for result := range s.client.StreamCaptions(ctx, media) {
		if result.Err != nil {
			s.logger.Warn().Err(result.Err).Msg("Caption stream error")
			continue
		}
		if err := enc.Encode(toSourceResponse(result.Value)); err != nil {
			s.logger.Debug().Err(err).Msg("Caption stream client went away")
			return nil
		}
		resp.Flush()
	}
	return nil
}

// captionContent proxies a caption track converted to vtt or srt.
// GET /api/v1/captions/content?url=&format=vtt|srt&episode=
func (s *Server) captionContent(c echo.Context) error {
	captionURL, err := captionURLFromQuery(c)
	if err != nil {
		return err
	}
	episode, err := optionalInt(c, "episode")
	if err != nil {
		return err
	}
	format := models.FormatVTT
	if f := c.QueryParam("format"); f != "" {
		format = models.ParseFormat(f)
	}

	result, err := s.client.ConvertCaption(c.Request().Context(), captionURL, episode, format)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", captionURL).Msg("Failed to serve caption content")
		return captionError(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, "inline; filename=\""+result.Filename+"\"")
	return c.Blob(http.StatusOK, result.ContentType, result.Content)
}

// captionCues returns the normalized cues of a caption track, optionally only
// those visible at a playback position.
// GET /api/v1/captions/cues?url=&episode=&at=&delay=
func (s *Server) captionCues(c echo.Context) error {
	captionURL, err := captionURLFromQuery(c)
	if err != nil {
		return err
	}
	episode, err := optionalInt(c, "episode")
	if err != nil {
		return err
	}
	delay, err := optionalFloat(c, "delay")
	if err != nil {
		return err
	}

	cues, err := s.client.LoadCues(c.Request().Context(), captionURL, episode)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", captionURL).Msg("Failed to load caption cues")
		return captionError(err)
	}

	if c.QueryParam("at") != "" {
		at, err := optionalFloat(c, "at")
		if err != nil {
			return err
		}
		cues = captions.ActiveCues(cues, delay, at)
	}
	return c.JSON(http.StatusOK, toCueResponses(cues))
}

// normalizeCaption converts a posted caption body to cues.
// POST /api/v1/captions/normalize?dedupe=true
func (s *Server) normalizeCaption(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read request body").SetInternal(err)
	}

	cues, err := captions.Normalize(string(body))
	if err != nil {
		return normalizeError(err)
	}
	if dedupe, _ := strconv.ParseBool(c.QueryParam("dedupe")); dedupe {
		cues = captions.Dedupe(cues)
	}
	return c.JSON(http.StatusOK, toCueResponses(cues))
}

func mediaFromQuery(c echo.Context) (models.MediaIdentity, error) {
	season, err := optionalInt(c, "season")
	if err != nil {
		return models.MediaIdentity{}, err
	}
	episode, err := optionalInt(c, "episode")
	if err != nil {
		return models.MediaIdentity{}, err
	}
	return models.MediaIdentity{
		IMDBID:  strings.TrimSpace(c.QueryParam("imdb_id")),
		TMDBID:  strings.TrimSpace(c.QueryParam("tmdb_id")),
		Season:  season,
		Episode: episode,
	}, nil
}

// captionURLFromQuery accepts absolute http(s) URLs pointing at public hosts only
func captionURLFromQuery(c echo.Context) (string, error) {
	raw := strings.TrimSpace(c.QueryParam("url"))
	if raw == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "url parameter is required")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "url must be an absolute http(s) URL")
	}
	if internalHost(u.Hostname()) {
		return "", echo.NewHTTPError(http.StatusBadRequest, "url must point to a public host")
	}
	return u.String(), nil
}

// internalHost reports whether host names this machine or a private network:
// localhost names and loopback, private, link-local or unspecified addresses.
func internalHost(host string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	return addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() || addr.IsUnspecified() || addr.IsMulticast()
}

func optionalInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return v, nil
}

func optionalFloat(c echo.Context, name string) (float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return v, nil
}
