package cache

import "context"

// Cache groups. Each group is a separate cache instance with its own metrics label
// and, on Redis, its own key namespace.
const (
	// GroupSearch holds aggregated caption lists keyed by MediaIdentity.CacheKey
	GroupSearch = "search"
	// GroupContent holds downloaded caption payloads keyed by URL
	GroupContent = "content"
)

// EvictCallback is called when an entry is evicted to respect the size bound.
// Redis reports evicted keys with a nil value.
type EvictCallback func(key string, value []byte)

// Cache is a byte-oriented store with a size bound and a per-entry TTL.
// Operations are best effort: backend failures are logged and read as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Delete(ctx context.Context, key string)
	// Len returns the number of live entries.
	Len(ctx context.Context) int
	Close() error
}
