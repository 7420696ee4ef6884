package client

import (
	"context"

	"github.com/Belphemur/SuperCaptions/internal/aggregator"
	"github.com/Belphemur/SuperCaptions/internal/config"
	"github.com/Belphemur/SuperCaptions/internal/models"
)

// cachedSource is the source name reported when StreamCaptions is answered from the cache
const cachedSource = "cache"

func (c *client) SearchCaptions(ctx context.Context, media models.MediaIdentity) []models.CaptionDescriptor {
	if captions, ok := c.cachedSearch(ctx, media); ok {
		return captions
	}

	results := c.aggregator.Collect(ctx, media)
	captions := aggregator.Merge(results)
	// A source that timed out or was cancelled is empty only for this call
	if ctx.Err() == nil && aggregator.Complete(results) {
		c.storeSearch(ctx, media, captions)
	}
	return captions
}

func (c *client) StreamCaptions(ctx context.Context, media models.MediaIdentity) <-chan models.StreamResult[models.SourceResult] {
	if captions, ok := c.cachedSearch(ctx, media); ok {
		ch := make(chan models.StreamResult[models.SourceResult], 1)
		ch <- models.StreamResult[models.SourceResult]{Value: models.SourceResult{Source: cachedSource, Index: -1, Captions: captions}}
		close(ch)
		return ch
	}

	upstream := c.aggregator.Stream(ctx, media)
	ch := make(chan models.StreamResult[models.SourceResult])
	go func() {
		defer close(ch)

		var (
			merged  []models.CaptionDescriptor
			partial bool
		)
		for result := range upstream {
			if result.Err == nil {
				merged = models.MergeCaptions(merged, result.Value.Captions)
				partial = partial || result.Value.Partial()
			}
			select {
			case ch <- result:
			case <-ctx.Done():
				return
			}
		}
		// Only a complete stream is representative enough to cache
		if ctx.Err() == nil && !partial {
			c.storeSearch(ctx, media, merged)
		}
	}()
	return ch
}

func (c *client) cachedSearch(ctx context.Context, media models.MediaIdentity) ([]models.CaptionDescriptor, bool) {
	if !media.HasIMDB() {
		return nil, false
	}
	captions, ok := c.searches.Load(ctx, media.CacheKey())
	if ok {
		logger := config.GetLogger()
		logger.Debug().Str("media", media.CacheKey()).Int("captions", len(captions)).Msg("Caption search served from cache")
	}
	return captions, ok
}

// storeSearch caches non-empty results. Empty results are often transient
// (every source timed out) and are retried on the next search.
func (c *client) storeSearch(ctx context.Context, media models.MediaIdentity, captions []models.CaptionDescriptor) {
	if len(captions) == 0 {
		return
	}
	if err := c.searches.Save(ctx, media.CacheKey(), captions); err != nil {
		logger := config.GetLogger()
		logger.Warn().Err(err).Str("media", media.CacheKey()).Msg("Failed to cache caption search")
	}
}
