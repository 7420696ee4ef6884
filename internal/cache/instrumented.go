package cache

import "context"

// instrumentedCache counts lookups for one group and exposes its size
type instrumentedCache struct {
	inner Cache
	group string
}

func newInstrumentedCache(inner Cache, group string) *instrumentedCache {
	c := &instrumentedCache{inner: inner, group: group}
	entries.track(group, c, inner.Len)
	return c
}

func (c *instrumentedCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, ok := c.inner.Get(ctx, key)
	result := ResultMiss
	if ok {
		result = ResultHit
	}
	LookupsTotal.WithLabelValues(c.group, result).Inc()
	return value, ok
}

func (c *instrumentedCache) Set(ctx context.Context, key string, value []byte) {
	c.inner.Set(ctx, key, value)
}

func (c *instrumentedCache) Delete(ctx context.Context, key string) {
	c.inner.Delete(ctx, key)
}

func (c *instrumentedCache) Len(ctx context.Context) int {
	return c.inner.Len(ctx)
}

// Close stops reporting the group's size and closes the backend.
func (c *instrumentedCache) Close() error {
	entries.untrack(c.group, c)
	return c.inner.Close()
}
