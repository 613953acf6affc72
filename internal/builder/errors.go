// Package builder implements C5, the booking graph builder: turning an
// input ScheduleRequest into Trip records ready for assignment by either
// scheduler.
package builder

import "errors"

// ErrBadInput wraps a malformed booking or an address the time/address
// helper could not resolve a timezone for.
var ErrBadInput = errors.New("builder: bad input")
