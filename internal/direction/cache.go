// Package direction implements C2, the direction cache: a persistent,
// TTL-expiring mapping from (origin, destination) address pairs to
// (meters, seconds), filled on miss by the routing provider adapter (C1)
// with single-flight de-duplication of concurrent misses for the same
// key.
package direction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/shiva/shuttlesched/internal/model"
	"github.com/shiva/shuttlesched/internal/repository"
	"github.com/shiva/shuttlesched/internal/routing"
)

// ErrNoRoute and ErrProviderError are re-exported from the routing
// package rather than redefined: the taxonomy is the same all the way up
// the call stack (C1 raises it, C2 propagates it unchanged, C5/C6/C10
// all switch on the same sentinel).
var (
	ErrNoRoute      = routing.ErrNoRoute
	ErrProviderError = routing.ErrProviderError
)

// store is the persistence surface Cache needs. *repository.DirectionRepository
// satisfies it; tests substitute a fake so singleflight/TTL behavior can be
// verified without a live MongoDB.
type store interface {
	Lookup(ctx context.Context, key string) (*model.DirectionEntry, error)
	Upsert(ctx context.Context, origin, destination string, meters, seconds int) (*model.DirectionEntry, error)
}

// Cache is the C2 direction cache.
type Cache struct {
	repo     store
	provider routing.Provider
	ttl      time.Duration
	group    singleflight.Group
}

// New builds a direction cache backed by repo, filled by provider on
// miss, with entries considered stale after ttl.
func New(repo *repository.DirectionRepository, provider routing.Provider, ttl time.Duration) *Cache {
	return &Cache{repo: repo, provider: provider, ttl: ttl}
}

// newWithStore builds a Cache over an arbitrary store implementation; used
// by tests to substitute a fake in place of MongoDB.
func newWithStore(s store, provider routing.Provider, ttl time.Duration) *Cache {
	return &Cache{repo: s, provider: provider, ttl: ttl}
}

// NewForTesting exposes newWithStore to other packages' test files (the
// scheduler and builder suites need a Cache backed by an in-memory fake,
// not a live MongoDB). The store parameter type is unexported, but Go
// resolves interface satisfaction structurally, so callers can still pass
// any value with the right Lookup/Upsert methods without naming the type.
func NewForTesting(s store, provider routing.Provider, ttl time.Duration) *Cache {
	return newWithStore(s, provider, ttl)
}

// Lookup reads the stored entry for (origin, destination) if present and
// not expired. ok is false on a miss (absent or stale) — this is not an
// error, just a cache miss.
func (c *Cache) Lookup(ctx context.Context, origin, destination string) (meters, seconds int, ok bool, err error) {
	entry, err := c.repo.Lookup(ctx, model.DirectionKey(origin, destination))
	if errors.Is(err, repository.ErrNotFound) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, fmt.Errorf("direction cache: lookup: %w", err)
	}

	// The TTL index reaps expired documents only in the background, so an
	// entry older than the configured TTL can still be read; it is treated
	// as a miss here — spec.md §4.1 calls honoring the TTL strictly on
	// read the "preferred" behavior.
	if time.Since(entry.CreatedAt) > c.ttl {
		return 0, 0, false, nil
	}

	return entry.DistanceInMeter, entry.DurationInSeconds, true, nil
}

// Store upserts the entry for (origin, destination), keyed on
// "{origin}|{destination}".
func (c *Cache) Store(ctx context.Context, origin, destination string, meters, seconds int) error {
	_, err := c.repo.Upsert(ctx, origin, destination, meters, seconds)
	if err != nil {
		return fmt.Errorf("direction cache: store: %w", err)
	}
	return nil
}

// Fetch is the composite lookup-or-fill operation: Lookup; on miss,
// invoke the routing provider; on a non-empty result, Store and return
// it; on no route, fail with ErrNoRoute (never cached). Concurrent Fetch
// calls for the same key share a single in-flight provider call.
func (c *Cache) Fetch(ctx context.Context, origin, destination string, departAt *time.Time) (meters, seconds int, err error) {
	if m, s, ok, err := c.Lookup(ctx, origin, destination); err != nil {
		return 0, 0, err
	} else if ok {
		return m, s, nil
	}

	key := model.DirectionKey(origin, destination)

	type result struct {
		meters, seconds int
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		m, s, provErr := c.provider.Route(ctx, origin, destination, departAt)
		if provErr != nil {
			// Never cached — the error taxonomy requires NoRoute and
			// ProviderError to propagate without poisoning the cache.
			return nil, provErr
		}

		if storeErr := c.Store(ctx, origin, destination, m, s); storeErr != nil {
			return nil, storeErr
		}

		return result{meters: m, seconds: s}, nil
	})
	if err != nil {
		return 0, 0, err
	}

	r := v.(result)
	return r.meters, r.seconds, nil
}
