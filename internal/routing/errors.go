package routing

import "errors"

// ErrNoRoute is returned when the provider responds successfully but with
// no usable leg between origin and destination.
var ErrNoRoute = errors.New("routing: provider returned no route")

// ErrProviderError is returned for any transport failure or non-2xx
// upstream response. It is never cached by C2.
var ErrProviderError = errors.New("routing: provider call failed")
