package cache

import (
	"context"
	"fmt"
	"testing"

	"github.com/Belphemur/SuperCaptions/internal/models"
)

var ctx = context.Background()

// episode returns the search key of an episode of Game of Thrones
func episode(season, number int) string {
	return models.MediaIdentity{IMDBID: "tt0944947", Season: season, Episode: number}.CacheKey()
}

// captionList is a cached aggregation result with n descriptors
func captionList(n int) []models.CaptionDescriptor {
	list := make([]models.CaptionDescriptor, n)
	for i := range list {
		list[i] = models.CaptionDescriptor{
			ID:       fmt.Sprintf("wyzie-%d", i),
			Language: "en",
			URL:      fmt.Sprintf("https://sub.wyzie.ru/c/%d.srt", i),
			Format:   models.FormatSRT,
			Source:   "wyzie",
		}
	}
	return list
}

const srtPayload = "1\n00:00:01,000 --> 00:00:02,000\nWinter is coming.\n"

func mustNew(t *testing.T, backend string, opts Options) Cache {
	t.Helper()
	c, err := New(backend, opts)
	if err != nil {
		t.Fatalf("New %s cache: %v", backend, err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}
