// Package scheduler implements C6 (the greedy best-fit heuristic) and C7
// (the constraint-programming formulation), the two algorithms that
// assign Trip records to Shuttles.
package scheduler

import (
	"errors"
	"log"
)

// ErrNoSchedule is returned by the CP scheduler when no feasible
// assignment exists within the solver's time budget (§4.4). The greedy
// scheduler never returns it — it always allocates another shuttle
// instead of failing to fit.
var ErrNoSchedule = errors.New("scheduler: no feasible schedule found")

// DebugLogger receives one line per fit/reject/assignment decision when
// debug logging is enabled (§7). A nil DebugLogger is a no-op.
type DebugLogger func(format string, args ...interface{})

// logf calls d if non-nil, tagging every line the same way the teacher's
// middleware tags its request log lines.
func (d DebugLogger) logf(format string, args ...interface{}) {
	if d == nil {
		return
	}
	d("[scheduler] "+format, args...)
}

// StdDebugLogger adapts the standard logger to DebugLogger.
func StdDebugLogger(format string, args ...interface{}) {
	log.Printf(format, args...)
}
