// Package baseline fetches and caches the unmodified response for each
// injection point. Every differential decision compares a mutated probe
// against this snapshot, so it is fetched at most once per key no matter
// how many category testers ask for it concurrently.
package baseline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/spaolacci/murmur3"
	"golang.org/x/sync/singleflight"

	"github.com/vantascan/vantascan/pkg/defaults"
	"github.com/vantascan/vantascan/pkg/probe"
)

// Baseline is the cached snapshot of an uninjected response. BodyPrefix is
// capped so a cache over many parameters stays small; similarity scoring
// against the prefix is stable because mutated responses are compared
// against the same cap.
type Baseline struct {
	Key        string
	StatusCode int
	BodyLen    int
	BodyPrefix string
	BodyHash   uint64
	Latency    time.Duration
}

// Failed reports whether the baseline fetch itself never completed.
// Differential rules cannot run against a failed baseline.
func (b Baseline) Failed() bool {
	return b.StatusCode == 0
}

// Cache deduplicates baseline fetches per key. Concurrent callers for the
// same key share one in-flight probe; later callers hit the stored entry.
type Cache struct {
	client *probe.Client
	log    *slog.Logger

	mu      sync.RWMutex
	entries map[string]Baseline
	group   singleflight.Group
}

// NewCache builds an empty cache over the given probe client.
func NewCache(client *probe.Client, log *slog.Logger) *Cache {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Cache{
		client:  client,
		log:     log,
		entries: make(map[string]Baseline),
	}
}

// GetOrFetch returns the baseline for key, probing with req only if no
// entry exists. Failed fetches are cached too: a target that cannot serve
// a baseline once will not be hammered with retries by every category.
func (c *Cache) GetOrFetch(ctx context.Context, key string, req probe.Request) Baseline {
	c.mu.RLock()
	b, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return b
	}

	v, _, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		b, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return b, nil
		}

		res := c.client.Do(ctx, req)
		b = fromResult(key, res)
		if b.Failed() {
			c.log.Debug("baseline fetch failed", "key", key, "error", res.Err)
		}

		c.mu.Lock()
		c.entries[key] = b
		c.mu.Unlock()
		return b, nil
	})
	return v.(Baseline)
}

// Get returns the cached baseline for key without fetching.
func (c *Cache) Get(key string) (Baseline, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.entries[key]
	return b, ok
}

// Len returns the number of cached baselines.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func fromResult(key string, res probe.Result) Baseline {
	prefix := res.Body
	if len(prefix) > defaults.BaselinePrefixLen {
		prefix = prefix[:defaults.BaselinePrefixLen]
	}
	return Baseline{
		Key:        key,
		StatusCode: res.StatusCode,
		BodyLen:    len(res.Body),
		BodyPrefix: prefix,
		BodyHash:   murmur3.Sum64([]byte(res.Body)),
		Latency:    res.Latency,
	}
}
