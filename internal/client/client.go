package client

import (
	"context"
	"errors"
	"net/http"

	"github.com/Belphemur/SuperCaptions/internal/aggregator"
	"github.com/Belphemur/SuperCaptions/internal/cache"
	"github.com/Belphemur/SuperCaptions/internal/config"
	"github.com/Belphemur/SuperCaptions/internal/models"
	"github.com/Belphemur/SuperCaptions/internal/providers"
	"github.com/Belphemur/SuperCaptions/internal/services"
)

// Client is the caption facade used by the API and the CLI
type Client interface {
	// SearchCaptions aggregates descriptors from every provider. It never fails:
	// no captions is a normal outcome. Non-empty results are cached.
	SearchCaptions(ctx context.Context, media models.MediaIdentity) []models.CaptionDescriptor

	// StreamCaptions emits per-source results as providers complete.
	// The channel is closed when all sources have reported.
	StreamCaptions(ctx context.Context, media models.MediaIdentity) <-chan models.StreamResult[models.SourceResult]

	// DownloadCaption fetches a descriptor URL, unwrapping archives and legacy charsets.
	DownloadCaption(ctx context.Context, captionURL string, episode int) (*models.DownloadResult, error)

	// ConvertCaption downloads a caption and converts it to format (vtt or srt).
	ConvertCaption(ctx context.Context, captionURL string, episode int, format models.Format) (*models.DownloadResult, error)

	// LoadCues downloads, normalizes and de-duplicates a caption.
	// Normalizer errors are returned unchanged so callers can tell empty from invalid.
	LoadCues(ctx context.Context, captionURL string, episode int) ([]models.Cue, error)

	// Sources lists the enabled providers in registration order.
	Sources() []string

	// Close releases any resources held by the client (e.g., cache connections).
	Close() error
}

// Options wires a client from already built parts. Nil caches disable caching.
type Options struct {
	HTTPClient   *http.Client
	Providers    []providers.Provider
	SearchCache  cache.Cache
	ContentCache cache.Cache
	Download     services.DownloaderOptions
}

// client implements the Client interface
type client struct {
	aggregator  *aggregator.Aggregator
	downloader  services.CaptionDownloader
	searches    *cache.Store[[]models.CaptionDescriptor]
	caches      []cache.Cache
}

// NewClient creates a client from configuration: shared HTTP client, enabled
// providers and the configured cache backend.
func NewClient(cfg *config.Config) (Client, error) {
	httpClient := NewHTTPClient(cfg)

	searchCache, err := cache.FromConfig(cfg, cache.GroupSearch)
	if err != nil {
		return nil, err
	}
	contentCache, err := cache.FromConfig(cfg, cache.GroupContent)
	if err != nil {
		_ = searchCache.Close()
		return nil, err
	}

	return NewWithOptions(Options{
		HTTPClient:   httpClient,
		Providers:    providers.FromConfig(cfg, httpClient),
		SearchCache:  searchCache,
		ContentCache: contentCache,
		Download: services.DownloaderOptions{
			MaxRetries: cfg.Download.MaxRetries,
			Timeout:    config.ParseDuration(cfg.Download.Timeout, 0),
			MaxSize:    cfg.Download.MaxSize,
			UserAgent:  cfg.UserAgent,
		},
	}), nil
}

// NewWithOptions creates a client from explicit parts
func NewWithOptions(opts Options) Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	c := &client{
		aggregator:  aggregator.New(opts.Providers),
		downloader:  services.NewCaptionDownloader(httpClient, opts.ContentCache, opts.Download),
		searches:    cache.NewStore[[]models.CaptionDescriptor](opts.SearchCache),
	}
	for _, cc := range []cache.Cache{opts.SearchCache, opts.ContentCache} {
		if cc != nil {
			c.caches = append(c.caches, cc)
		}
	}
	return c
}

func (c *client) Sources() []string {
	return c.aggregator.Sources()
}

// Close releases any resources held by the client, such as cache connections.
func (c *client) Close() error {
	var errs []error
	for _, cc := range c.caches {
		if err := cc.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
