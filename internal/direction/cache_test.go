package direction

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shiva/shuttlesched/internal/model"
	"github.com/shiva/shuttlesched/internal/repository"
)

// fakeStore is an in-memory stand-in for *repository.DirectionRepository.
type fakeStore struct {
	mu      sync.Mutex
	entries map[string]model.DirectionEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[string]model.DirectionEntry)}
}

func (f *fakeStore) Lookup(_ context.Context, key string) (*model.DirectionEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (f *fakeStore) Upsert(_ context.Context, origin, destination string, meters, seconds int) (*model.DirectionEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := model.DirectionKey(origin, destination)
	e := model.DirectionEntry{
		Key: key, Origin: origin, Destination: destination,
		DistanceInMeter: meters, DurationInSeconds: seconds,
		CreatedAt: time.Now().UTC(),
	}
	f.entries[key] = e
	return &e, nil
}

// countingProvider counts invocations and returns a fixed result, with an
// optional artificial delay to widen the race window for the
// single-flight test.
type countingProvider struct {
	calls int32
	delay time.Duration
	err   error
}

func (p *countingProvider) Route(ctx context.Context, origin, destination string, departAt *time.Time) (int, int, error) {
	atomic.AddInt32(&p.calls, 1)
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	if p.err != nil {
		return 0, 0, p.err
	}
	return 5000, 600, nil
}

func TestFetchCachesOnMiss(t *testing.T) {
	s := newFakeStore()
	p := &countingProvider{}
	c := newWithStore(s, p, time.Hour)

	meters, seconds, err := c.Fetch(context.Background(), "A", "B", nil)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if meters != 5000 || seconds != 600 {
		t.Fatalf("got (%d,%d), want (5000,600)", meters, seconds)
	}
	if p.calls != 1 {
		t.Fatalf("expected 1 provider call, got %d", p.calls)
	}

	// Second fetch should hit the cache, not the provider.
	if _, _, err := c.Fetch(context.Background(), "A", "B", nil); err != nil {
		t.Fatalf("second Fetch: %v", err)
	}
	if p.calls != 1 {
		t.Fatalf("expected provider still called once, got %d", p.calls)
	}
}

func TestFetchSingleFlight(t *testing.T) {
	s := newFakeStore()
	p := &countingProvider{delay: 50 * time.Millisecond}
	c := newWithStore(s, p, time.Hour)

	const n = 10
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, _, err := c.Fetch(context.Background(), "A", "B", nil); err != nil {
				t.Errorf("Fetch: %v", err)
			}
		}()
	}
	wg.Wait()

	if p.calls != 1 {
		t.Errorf("expected exactly 1 provider call for concurrent identical fetches, got %d", p.calls)
	}
}

func TestLookupExpiresAfterTTL(t *testing.T) {
	s := newFakeStore()
	key := model.DirectionKey("A", "B")
	s.entries[key] = model.DirectionEntry{
		Key: key, Origin: "A", Destination: "B",
		DistanceInMeter: 1000, DurationInSeconds: 100,
		CreatedAt: time.Now().UTC().Add(-2 * time.Second),
	}

	c := newWithStore(s, &countingProvider{}, time.Second)

	_, _, ok, err := c.Lookup(context.Background(), "A", "B")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if ok {
		t.Error("expected a miss for an entry older than the TTL")
	}
}

func TestFetchNoRouteNotCached(t *testing.T) {
	s := newFakeStore()
	p := &countingProvider{err: ErrNoRoute}
	c := newWithStore(s, p, time.Hour)

	_, _, err := c.Fetch(context.Background(), "A", "B", nil)
	if !errors.Is(err, ErrNoRoute) {
		t.Fatalf("expected ErrNoRoute, got %v", err)
	}
	if len(s.entries) != 0 {
		t.Error("a NoRoute result must never be cached")
	}
}
