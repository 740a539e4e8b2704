// backend/src/analytics/cache.go
package analytics

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/username/moneymap/backend/src/logger"
	"github.com/username/moneymap/backend/src/models"
)

// Cache memoizes analytics results. It is the only component in the
// engine with mutable state that outlives a call.
//
// Settled values live in a TTL store; computations still running are
// tracked separately as in-flight entries so that two concurrent
// callers with the same key trigger exactly one computation. A failed
// computation is never cached: the entry is dropped and the error
// propagates, so the next call retries.
type Cache struct {
	mu       sync.Mutex
	settled  *gocache.Cache
	inflight map[string]*inflightEntry
	ttl      time.Duration

	dataVersion atomic.Uint64
	hits        atomic.Uint64
	misses      atomic.Uint64
}

// inflightEntry is the pending half of the cache's tagged entry state:
// a key maps either to a settled value in the TTL store or to one of
// these while its computation runs.
type inflightEntry struct {
	done  chan struct{}
	value any
	err   error
}

// NewCache creates a cache whose settled entries expire after ttl and
// are swept every cleanupInterval.
func NewCache(ttl, cleanupInterval time.Duration) *Cache {
	return &Cache{
		settled:  gocache.New(ttl, cleanupInterval),
		inflight: make(map[string]*inflightEntry),
		ttl:      ttl,
	}
}

// Key builds a deterministic cache key from the operation name, its
// parameters (serialized in sorted order), an order-independent
// fingerprint of the transaction set and the current data version.
func (c *Cache) Key(operation string, params map[string]any, txs []models.Transaction) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(operation)
	for _, name := range names {
		fmt.Fprintf(&b, "|%s=%v", name, params[name])
	}
	fmt.Fprintf(&b, "|fp=%x|v=%d", Fingerprint(txs), c.dataVersion.Load())
	return b.String()
}

// Memoize returns the cached value for key or runs compute exactly once,
// sharing the in-flight computation with any concurrent caller of the
// same key. The computed value is stored for the cache's TTL; errors
// are returned but never stored.
func (c *Cache) Memoize(key string, compute func() (any, error)) (any, error) {
	c.mu.Lock()
	if value, found := c.settled.Get(key); found {
		c.mu.Unlock()
		c.hits.Add(1)
		return value, nil
	}
	if entry, found := c.inflight[key]; found {
		c.mu.Unlock()
		c.hits.Add(1)
		<-entry.done
		return entry.value, entry.err
	}

	entry := &inflightEntry{done: make(chan struct{})}
	c.inflight[key] = entry
	c.mu.Unlock()
	c.misses.Add(1)

	value, err := compute()

	c.mu.Lock()
	entry.value = value
	entry.err = err
	// Only publish if this entry is still the registered one; an
	// invalidation while computing means the result is already stale.
	if current, ok := c.inflight[key]; ok && current == entry {
		delete(c.inflight, key)
		if err == nil {
			c.settled.Set(key, value, c.ttl)
		}
	}
	c.mu.Unlock()
	close(entry.done)

	return value, err
}

// Invalidate removes every entry whose key contains pattern and bumps
// the data version so future keys differ. An empty pattern matches all.
func (c *Cache) Invalidate(pattern string) {
	c.mu.Lock()
	removed := 0
	for key := range c.settled.Items() {
		if strings.Contains(key, pattern) {
			c.settled.Delete(key)
			removed++
		}
	}
	for key := range c.inflight {
		if strings.Contains(key, pattern) {
			delete(c.inflight, key)
			removed++
		}
	}
	c.mu.Unlock()
	c.dataVersion.Add(1)
	logger.L.Debug("Analytics cache invalidated", "pattern", pattern, "removed", removed)
}

// Clear removes everything and bumps the data version.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.settled.Flush()
	c.inflight = make(map[string]*inflightEntry)
	c.mu.Unlock()
	c.dataVersion.Add(1)
	logger.L.Debug("Analytics cache cleared")
}

// BumpVersion increments the data version counter. Called on every
// mutation notification so stale keys can never be served again.
func (c *Cache) BumpVersion() {
	c.dataVersion.Add(1)
}

// Stats reports cache effectiveness counters.
func (c *Cache) Stats() models.CacheStats {
	c.mu.Lock()
	entries := c.settled.ItemCount() + len(c.inflight)
	c.mu.Unlock()
	return models.CacheStats{
		Entries:     entries,
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		DataVersion: c.dataVersion.Load(),
	}
}

// Fingerprint produces a cheap, order-independent hash of a transaction
// set: per-record FNV-1a over the id|timestamp|amount|category tuple,
// summed so record order does not matter.
func Fingerprint(txs []models.Transaction) uint64 {
	var combined uint64
	for _, tx := range txs {
		h := fnv.New64a()
		fmt.Fprintf(h, "%s|%s|%.2f|%s", tx.ID, tx.Timestamp, tx.Amount, tx.Category)
		combined += h.Sum64()
	}
	return combined
}
