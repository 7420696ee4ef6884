package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Belphemur/SuperCaptions/internal/config"
	"github.com/Belphemur/SuperCaptions/internal/metrics"
	"github.com/Belphemur/SuperCaptions/internal/models"
	"github.com/Belphemur/SuperCaptions/internal/providers"
)

// Aggregator fans a search out to every provider concurrently.
//
// Each provider call races its own timeout. When the timeout fires the provider's
// context is cancelled and the call is abandoned: a provider that keeps running
// has its late result discarded. A failing or timed-out source counts as empty,
// and the aggregation itself never fails.
type Aggregator struct {
	providers []providers.Provider
}

// New creates an aggregator over providers, in registration order
func New(list []providers.Provider) *Aggregator {
	return &Aggregator{providers: list}
}

// Sources returns the provider names in registration order
func (a *Aggregator) Sources() []string {
	names := make([]string, len(a.providers))
	for i, p := range a.providers {
		names[i] = p.Name()
	}
	return names
}

// Aggregate returns the descriptors of all providers, concatenated in registration
// order and de-duplicated by ID (first seen wins). Media without an IMDB id yields
// an empty slice without any provider call.
func (a *Aggregator) Aggregate(ctx context.Context, media models.MediaIdentity) []models.CaptionDescriptor {
	return Merge(a.Collect(ctx, media))
}

// Merge concatenates source results in order and de-duplicates them by ID
func Merge(results []models.SourceResult) []models.CaptionDescriptor {
	captions := []models.CaptionDescriptor{}
	for _, r := range results {
		captions = models.MergeCaptions(captions, r.Captions)
	}
	return captions
}

// Complete reports whether every source answered within its timeout
func Complete(results []models.SourceResult) bool {
	for _, r := range results {
		if r.Partial() {
			return false
		}
	}
	return true
}

// Collect queries every provider concurrently and returns one result per provider,
// in registration order. Media without an IMDB id yields no results.
func (a *Aggregator) Collect(ctx context.Context, media models.MediaIdentity) []models.SourceResult {
	logger := config.GetLogger()
	if !media.HasIMDB() {
		logger.Debug().Msg("No IMDB id, skipping caption aggregation")
		return []models.SourceResult{}
	}

	results := make([]models.SourceResult, len(a.providers))
	var wg sync.WaitGroup
	wg.Add(len(a.providers))
	for i, p := range a.providers {
		go func() {
			defer wg.Done()
			results[i] = a.query(ctx, i, p, media)
		}()
	}
	wg.Wait()

	logger.Info().
		Str("media", media.CacheKey()).
		Int("sources", len(results)).
		Bool("complete", Complete(results)).
		Msg("Caption aggregation completed")
	return results
}

// Stream emits each provider's result as soon as it completes. The channel is closed
// once every provider has reported or ctx is done. Descriptors are not de-duplicated
// across sources; consumers merge them with models.MergeCaptions.
func (a *Aggregator) Stream(ctx context.Context, media models.MediaIdentity) <-chan models.StreamResult[models.SourceResult] {
	ch := make(chan models.StreamResult[models.SourceResult], len(a.providers))
	if !media.HasIMDB() {
		close(ch)
		return ch
	}

	go func() {
		defer close(ch)

		var wg sync.WaitGroup
		wg.Add(len(a.providers))
		for i, p := range a.providers {
			go func() {
				defer wg.Done()
				ch <- models.StreamResult[models.SourceResult]{Value: a.query(ctx, i, p, media)}
			}()
		}
		wg.Wait()
	}()

	return ch
}

// query runs one provider against its timeout. The buffered channel lets an
// abandoned provider goroutine finish without blocking.
func (a *Aggregator) query(ctx context.Context, index int, p providers.Provider, media models.MediaIdentity) models.SourceResult {
	logger := config.GetLogger().With().Str("source", p.Name()).Logger()
	start := time.Now()

	sourceCtx, cancel := context.WithTimeout(ctx, p.Timeout())
	defer cancel()

	type searchOutcome struct {
		captions []models.CaptionDescriptor
		panicked bool
	}
	done := make(chan searchOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().Err(fmt.Errorf("panic: %v", r)).Msg("Caption source panicked")
				done <- searchOutcome{panicked: true}
			}
		}()
		done <- searchOutcome{captions: p.Search(sourceCtx, media)}
	}()

	result := models.SourceResult{Source: p.Name(), Index: index, Captions: []models.CaptionDescriptor{}}
	outcome := metrics.OutcomeSuccess

	select {
	case o := <-done:
		switch {
		case o.panicked:
			outcome = metrics.OutcomePanic
		case len(o.captions) == 0:
			outcome = metrics.OutcomeEmpty
		default:
			result.Captions = o.captions
		}
	case <-sourceCtx.Done():
		if errors.Is(sourceCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			result.TimedOut = true
			outcome = metrics.OutcomeTimeout
		} else {
			result.Cancelled = true
			outcome = metrics.OutcomeCancelled
		}
	}
	result.Elapsed = time.Since(start)

	metrics.SourceRequestsTotal.WithLabelValues(p.Name(), outcome).Inc()
	metrics.SourceDuration.WithLabelValues(p.Name()).Observe(result.Elapsed.Seconds())

	if result.TimedOut {
		logger.Warn().Dur("timeout", p.Timeout()).Msg("Caption source timed out, treating as empty")
	} else {
		logger.Info().
			Int("captions", len(result.Captions)).
			Dur("elapsed", result.Elapsed).
			Str("outcome", outcome).
			Msg("Caption source completed")
	}
	return result
}
