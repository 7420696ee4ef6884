package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"github.com/Belphemur/SuperCaptions/internal/apperrors"
	"github.com/Belphemur/SuperCaptions/internal/cache"
	"github.com/Belphemur/SuperCaptions/internal/config"
	"github.com/Belphemur/SuperCaptions/internal/metrics"
	"github.com/Belphemur/SuperCaptions/internal/models"
	"github.com/Belphemur/SuperCaptions/internal/parser"
)

const (
	defaultDownloadTimeout = 20 * time.Second
	defaultMaxCaptionSize  = 10 << 20
)

// DownloaderOptions tunes a DefaultCaptionDownloader. Zero values use defaults.
type DownloaderOptions struct {
	MaxRetries int
	Timeout    time.Duration // per attempt
	MaxSize    int64         // bytes, applies to the payload and to extracted files
	UserAgent  string
	RetryDelay time.Duration // initial backoff, doubled up to ten times this value
}

// payload is the raw HTTP body of a caption URL, as cached.
type payload struct {
	ContentType string `json:"contentType"`
	Content     []byte `json:"content"`
}

// DefaultCaptionDownloader implements CaptionDownloader with retries and payload caching
type DefaultCaptionDownloader struct {
	httpClient  *http.Client
	payloads    *cache.Store[payload]
	retryPolicy retrypolicy.RetryPolicy[*payload]
	timeout     time.Duration
	maxSize     int64
	userAgent   string
}

// NewCaptionDownloader creates a downloader. contentCache may be nil to disable caching.
func NewCaptionDownloader(httpClient *http.Client, contentCache cache.Cache, opts DownloaderOptions) CaptionDownloader {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultDownloadTimeout
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = defaultMaxCaptionSize
	}
	if opts.UserAgent == "" {
		opts.UserAgent = config.GetUserAgent()
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 200 * time.Millisecond
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	logger := config.GetLogger()
	policy := retrypolicy.NewBuilder[*payload]().
		HandleIf(func(_ *payload, err error) bool {
			return isRetriable(err)
		}).
		WithMaxRetries(opts.MaxRetries).
		WithBackoff(opts.RetryDelay, 10*opts.RetryDelay).
		ReturnLastFailure().
		OnRetry(func(e failsafe.ExecutionEvent[*payload]) {
			logger.Warn().Err(e.LastError()).Int("attempt", e.Attempts()).Msg("Retrying caption download")
		}).
		Build()

	return &DefaultCaptionDownloader{
		httpClient:  httpClient,
		payloads:    cache.NewStore[payload](contentCache),
		retryPolicy: policy,
		timeout:     opts.Timeout,
		maxSize:     opts.MaxSize,
		userAgent:   opts.UserAgent,
	}
}

// Download implements CaptionDownloader
func (d *DefaultCaptionDownloader) Download(ctx context.Context, captionURL string, episode int) (*models.DownloadResult, error) {
	result, err := d.download(ctx, captionURL, episode)
	if err != nil {
		metrics.CaptionDownloadsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.CaptionDownloadsTotal.WithLabelValues("success").Inc()
	return result, nil
}

func (d *DefaultCaptionDownloader) download(ctx context.Context, captionURL string, episode int) (*models.DownloadResult, error) {
	logger := config.GetLogger()
	logger.Debug().Str("url", captionURL).Int("episode", episode).Msg("Downloading caption")

	p, err := d.loadPayload(ctx, captionURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download caption: %w", err)
	}

	filename := filenameFromURL(captionURL, p.ContentType)
	content := p.Content
	contentType := p.ContentType

	if isGzip(content) {
		if content, err = gunzip(content, d.maxSize); err != nil {
			return nil, fmt.Errorf("failed to decompress caption: %w", err)
		}
		filename = strings.TrimSuffix(filename, ".gz")
		contentType = ""
	}

	if kind := archiveKindOf(content); kind != archiveNone {
		entry, err := extractFromArchive(kind, content, episode, d.maxSize)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("filename", entry.name).Int("size", len(entry.content)).Msg("Extracted caption from archive")
		filename, content, contentType = entry.name, entry.content, ""
	}

	decoded, encodingName, err := parser.DecodeToUTF8(content, contentType)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("filename", filename).
		Str("encoding", encodingName).
		Int("size", len(decoded)).
		Msg("Caption downloaded")

	return &models.DownloadResult{
		Filename:    filename,
		Content:     decoded,
		ContentType: getContentTypeFromFilename(filename),
	}, nil
}

// loadPayload returns the cached payload for captionURL or fetches it with retries.
func (d *DefaultCaptionDownloader) loadPayload(ctx context.Context, captionURL string) (*payload, error) {
	if cached, ok := d.payloads.Load(ctx, captionURL); ok {
		logger := config.GetLogger()
		logger.Debug().Str("url", captionURL).Msg("Caption payload served from cache")
		return &cached, nil
	}

	p, err := failsafe.With[*payload](d.retryPolicy).
		WithContext(ctx).
		Get(func() (*payload, error) {
			return d.fetch(ctx, captionURL)
		})
	if err != nil {
		return nil, err
	}

	if err := d.payloads.Save(ctx, captionURL, *p); err != nil {
		logger := config.GetLogger()
		logger.Warn().Err(err).Str("url", captionURL).Msg("Failed to cache caption payload")
	}
	return p, nil
}

// fetch performs a single download attempt.
func (d *DefaultCaptionDownloader) fetch(ctx context.Context, captionURL string) (*payload, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, captionURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &apperrors.ErrCaptionResourceNotFound{URL: captionURL}
	case resp.StatusCode != http.StatusOK:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logger := config.GetLogger()
		logger.Debug().
			Int("status", resp.StatusCode).
			Str("body", strings.TrimSpace(string(snippet))).
			Msg("Caption download returned non-OK status")
		return nil, apperrors.NewProviderStatusError(hostOf(captionURL), resp.StatusCode)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, d.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(content)) > d.maxSize {
		return nil, fmt.Errorf("caption exceeds maximum size of %d bytes", d.maxSize)
	}

	return &payload{
		ContentType: resp.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

// isRetriable reports whether err is a transient failure worth another attempt:
// rate limits, server errors, timeouts and dropped connections.
func isRetriable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var statusErr *apperrors.ErrProviderStatus
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= http.StatusInternalServerError
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

func hostOf(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		return u.Host
	}
	return rawURL
}

// filenameFromURL derives a file name from the last URL path segment,
// adding an extension from the content type when the segment has none.
func filenameFromURL(rawURL, contentType string) string {
	name := "caption"
	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "." && base != "/" && base != "" {
			name = base
		}
	}
	if path.Ext(name) == "" {
		name += getExtensionFromContentType(contentType)
	}
	return name
}

// getExtensionFromContentType derives file extension from MIME type
func getExtensionFromContentType(contentType string) string {
	ctLower := strings.ToLower(contentType)

	// Check most specific patterns first to avoid false matches
	switch {
	case strings.Contains(ctLower, "zip"):
		return ".zip"
	case strings.Contains(ctLower, "rar"):
		return ".rar"
	case strings.Contains(ctLower, "gzip"):
		return ".gz"
	case strings.Contains(ctLower, "x-subrip"):
		return ".srt"
	case strings.Contains(ctLower, "x-ass"), strings.Contains(ctLower, "x-ssa"):
		return ".ass"
	case strings.Contains(ctLower, "vtt"):
		return ".vtt"
	case strings.Contains(ctLower, "ttml"):
		return ".ttml"
	case strings.Contains(ctLower, "x-sub"):
		return ".sub"
	default:
		return ".srt"
	}
}

// getContentTypeFromFilename derives MIME type from file extension
func getContentTypeFromFilename(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".srt":
		return "application/x-subrip"
	case ".ass", ".ssa":
		return "text/x-ssa"
	case ".vtt":
		return "text/vtt"
	case ".sub":
		return "text/x-microdvd"
	case ".ttml", ".dfxp":
		return "application/ttml+xml"
	default:
		return "text/plain"
	}
}
