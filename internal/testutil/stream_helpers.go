package testutil

import (
	"context"

	"github.com/Belphemur/SuperCaptions/internal/models"
)

// CollectStream consumes a stream and returns its values, stopping on the first error.
// This is a test helper and should not be used in production code.
func CollectStream[T any](ctx context.Context, stream <-chan models.StreamResult[T]) ([]T, error) {
	var values []T
	for {
		select {
		case result, ok := <-stream:
			if !ok {
				return values, nil
			}
			if result.Err != nil {
				return nil, result.Err
			}
			values = append(values, result.Value)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// CollectCaptions flattens a per-source result stream into descriptors, in arrival order.
// This is a test helper and should not be used in production code.
func CollectCaptions(ctx context.Context, stream <-chan models.StreamResult[models.SourceResult]) ([]models.CaptionDescriptor, error) {
	results, err := CollectStream(ctx, stream)
	if err != nil {
		return nil, err
	}
	var captions []models.CaptionDescriptor
	for _, r := range results {
		captions = append(captions, r.Captions...)
	}
	return captions, nil
}
