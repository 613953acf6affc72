// Package routing implements C1, the routing provider adapter: a single
// remote call mapping (origin, destination, [depart_time]) to
// (meters, seconds). It is intentionally thin and stateless — all the
// caching, TTL, and single-flight behavior lives one layer up in
// internal/direction (C2).
package routing

import (
	"context"
	"time"
)

// Provider issues one remote routing lookup per call.
type Provider interface {
	// Route returns the distance (meters) and duration (seconds) of the
	// best route from origin to destination. departAt, when non-nil, is
	// passed to the provider as a traffic-aware hint.
	//
	// Returns ErrNoRoute if the provider responds with no usable leg, or
	// ErrProviderError wrapping the underlying failure for any transport
	// or upstream error.
	Route(ctx context.Context, origin, destination string, departAt *time.Time) (meters, seconds int, err error)
}
