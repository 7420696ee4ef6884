package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// memoryCache keeps entries in process with golang-lru's expirable LRU.
// Entries expire TTL after they were written; reads refresh LRU order only.
type memoryCache struct {
	entries *lru.LRU[string, []byte]
	onEvict EvictCallback
}

func newMemoryCache(opts Options) *memoryCache {
	return &memoryCache{
		entries: lru.NewLRU[string, []byte](opts.Size, nil, opts.TTL),
		onEvict: opts.OnEvict,
	}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	return m.entries.Get(key)
}

// Set reports the entry pushed out by the size bound. Expiry and Delete are not evictions.
func (m *memoryCache) Set(_ context.Context, key string, value []byte) {
	var (
		oldestKey   string
		oldestValue []byte
	)
	if m.onEvict != nil && !m.entries.Contains(key) {
		oldestKey, oldestValue, _ = m.entries.GetOldest()
	}
	if m.entries.Add(key, value) && m.onEvict != nil {
		m.onEvict(oldestKey, oldestValue)
	}
}

func (m *memoryCache) Delete(_ context.Context, key string) {
	m.entries.Remove(key)
}

func (m *memoryCache) Len(context.Context) int {
	return m.entries.Len()
}

func (m *memoryCache) Close() error {
	return nil
}
