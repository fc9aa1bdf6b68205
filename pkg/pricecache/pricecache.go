// Package pricecache memoizes pricing results in Redis, keyed by a hash
// of the request parameters. Adapted from the result cache in
// perclft-QubitEngine's services/cache: same hash-key/TTL/hit-counter
// shape, repointed at option-pricing requests instead of circuit state
// vectors.
package pricecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
)

// Entry is the cached payload for one pricing request.
type Entry struct {
	Price     float64   `json:"price"`
	Method    string    `json:"method"`
	CachedAt  time.Time `json:"cached_at"`
	ExpiresAt time.Time `json:"expires_at"`
	HitCount  int32     `json:"hit_count"`
}

// Request is the subset of pricing parameters that determine a unique
// cache key; two requests with identical fields are assumed to price
// identically. The Context's variance-reduction flags are not part of
// the key.
type Request struct {
	Method          string
	Spot, Strike    float64
	Rate, Vol, Time float64
	Style           string
	NumSimulations  int
	BinomialSteps   int
	Seed            uint64
}

// Cache wraps a Redis client with the pricing-specific hit/miss counters
// the teacher's cache server tracked via atomics.
type Cache struct {
	rdb        *redis.Client
	defaultTTL time.Duration
	hits       int64
	misses     int64
}

// New returns a Cache bound to rdb with defaultTTL applied when Store is
// called without an explicit TTL override.
func New(rdb *redis.Client, defaultTTL time.Duration) *Cache {
	return &Cache{rdb: rdb, defaultTTL: defaultTTL}
}

// Key derives the deterministic cache key for a Request.
func Key(req Request) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%.10f|%.10f|%.10f|%.10f|%.10f|%s|%d|%d|%d",
		req.Method, req.Spot, req.Strike, req.Rate, req.Vol, req.Time,
		req.Style, req.NumSimulations, req.BinomialSteps, req.Seed)
	return "price:" + hex.EncodeToString(h.Sum(nil))
}

// Store caches price under Request's derived key with ttl (0 uses the
// Cache's default).
func (c *Cache) Store(ctx context.Context, req Request, price float64, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	now := time.Now()
	entry := Entry{Price: price, Method: req.Method, CachedAt: now, ExpiresAt: now.Add(ttl)}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("pricecache: marshal entry: %w", err)
	}
	if err := c.rdb.Set(ctx, Key(req), data, ttl).Err(); err != nil {
		return fmt.Errorf("pricecache: set: %w", err)
	}
	return nil
}

// Lookup returns the cached Entry for req, or ok=false on a miss.
func (c *Cache) Lookup(ctx context.Context, req Request) (Entry, bool, error) {
	data, err := c.rdb.Get(ctx, Key(req)).Bytes()
	if err == redis.Nil {
		atomic.AddInt64(&c.misses, 1)
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("pricecache: get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, false, fmt.Errorf("pricecache: unmarshal entry: %w", err)
	}
	entry.HitCount++
	atomic.AddInt64(&c.hits, 1)

	if remaining := time.Until(entry.ExpiresAt); remaining > 0 {
		if updated, err := json.Marshal(entry); err == nil {
			c.rdb.Set(ctx, Key(req), updated, remaining)
		}
	}
	return entry, true, nil
}

// Invalidate removes the cached entry for req, if any.
func (c *Cache) Invalidate(ctx context.Context, req Request) (bool, error) {
	deleted, err := c.rdb.Del(ctx, Key(req)).Result()
	if err != nil {
		return false, fmt.Errorf("pricecache: del: %w", err)
	}
	return deleted > 0, nil
}

// Stats reports cumulative hit/miss counters.
type Stats struct {
	Hits, Misses int64
	HitRate      float64
}

// Stats returns a snapshot of the cache's hit/miss counters.
func (c *Cache) Stats() Stats {
	hits := atomic.LoadInt64(&c.hits)
	misses := atomic.LoadInt64(&c.misses)
	total := hits + misses
	rate := 0.0
	if total > 0 {
		rate = float64(hits) / float64(total)
	}
	return Stats{Hits: hits, Misses: misses, HitRate: rate}
}
