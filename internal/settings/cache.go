package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rpanav/roinav/internal/roi"
)

// DefaultTTL bounds how stale a cached configuration may get before the next
// Get refetches it.
const DefaultTTL = 5 * time.Minute

// ErrConfigUnavailable reports a failed configuration fetch. Calculations
// abort on it; defaults are never synthesized on fetch errors, only on the
// explicit first-run ErrNotFound state.
var ErrConfigUnavailable = errors.New("global configuration unavailable")

// Provider fetches the current normalized configuration from storage.
// It returns ErrNotFound when no configuration was ever saved.
type Provider interface {
	Fetch(ctx context.Context) (roi.Config, error)
}

type cacheEntry struct {
	cfg       roi.Config
	fetchedAt time.Time
}

// Cache is the process-wide time-boxed configuration cache. It is constructed
// once and shared by reference: the calculation engine reads through Get and
// the settings write path calls Invalidate so the next read refetches.
type Cache struct {
	provider Provider
	ttl      time.Duration
	now      func() time.Time

	mu    sync.Mutex
	entry *cacheEntry
}

// NewCache returns a cache over provider. A non-positive ttl falls back to
// DefaultTTL.
func NewCache(provider Provider, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		provider: provider,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the cached configuration while it is fresh, fetching from the
// provider otherwise. Concurrent callers racing after expiry may each fetch
// and overwrite the entry; the refresh is idempotent so the last write wins
// harmlessly.
func (c *Cache) Get(ctx context.Context) (roi.Config, error) {
	c.mu.Lock()
	if c.entry != nil && c.now().Sub(c.entry.fetchedAt) < c.ttl {
		cfg := c.entry.cfg
		c.mu.Unlock()
		return cfg, nil
	}
	c.mu.Unlock()

	cfg, err := c.provider.Fetch(ctx)
	if errors.Is(err, ErrNotFound) {
		cfg = roi.DefaultConfig()
	} else if err != nil {
		return roi.Config{}, fmt.Errorf("%w: %w", ErrConfigUnavailable, err)
	}

	c.mu.Lock()
	c.entry = &cacheEntry{cfg: cfg, fetchedAt: c.now()}
	c.mu.Unlock()

	return cfg, nil
}

// Invalidate clears the cached entry unconditionally. The settings write path
// calls it right after persisting, so the next Get sees authoritative data
// without waiting out the TTL.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.entry = nil
	c.mu.Unlock()
}
