package cache

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Lookup results
const (
	ResultHit  = "hit"
	ResultMiss = "miss"
)

// Cache metrics, labelled by cache group
var (
	// LookupsTotal counts reads by result (hit or miss).
	LookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caption_cache_lookups_total",
			Help: "Total number of cache reads by result.",
		},
		[]string{"cache", "result"},
	)

	// EvictionsTotal counts entries pushed out by the size bound.
	EvictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caption_cache_evictions_total",
			Help: "Total number of entries evicted to respect the cache size.",
		},
		[]string{"cache"},
	)

	entries = newEntriesCollector()
)

func init() {
	prometheus.MustRegister(LookupsTotal, EvictionsTotal, entries)
}

// entriesCollector reports caption_cache_entries for every open cache group,
// asking each cache for its size at scrape time. Redis expires entries on its
// own, so a counter maintained in process would drift.
type entriesCollector struct {
	desc   *prometheus.Desc
	mu     sync.Mutex
	groups map[string]trackedCache
}

type trackedCache struct {
	owner Cache
	size  func(context.Context) int
}

func newEntriesCollector() *entriesCollector {
	return &entriesCollector{
		desc: prometheus.NewDesc(
			"caption_cache_entries",
			"Current number of entries in the cache.",
			[]string{"cache"},
			nil,
		),
		groups: make(map[string]trackedCache),
	}
}

// track starts reporting owner's size under group. A later cache for the same
// group replaces it.
func (c *entriesCollector) track(group string, owner Cache, size func(context.Context) int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.groups[group] = trackedCache{owner: owner, size: size}
}

// untrack stops reporting group if owner is still the cache reported for it
func (c *entriesCollector) untrack(group string, owner Cache) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tracked, ok := c.groups[group]; ok && tracked.owner == owner {
		delete(c.groups, group)
	}
}

func (c *entriesCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *entriesCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	snapshot := make(map[string]func(context.Context) int, len(c.groups))
	for group, tracked := range c.groups {
		snapshot[group] = tracked.size
	}
	c.mu.Unlock()

	for group, size := range snapshot {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		n := size(ctx)
		cancel()
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(n), group)
	}
}
