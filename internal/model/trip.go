package model

import (
	"time"

	"github.com/shiva/shuttlesched/internal/mobility"
)

// Trip is the engine's internal, time-resolved representation of a
// booking. It owns the Booking it was built from rather than mutating it;
// the output Trip (see Shuttle) is constructed from both, per the
// systems-rewrite guidance to keep Trip and Booking separate owned values.
type Trip struct {
	Booking Booking

	// PickupInstant is the absolute, timezone-resolved pickup time (I4).
	PickupInstant time.Time

	// DurationSec and DistanceMeters describe the pickup→dropoff leg, as
	// returned by the direction cache (C2).
	DurationSec    int
	DistanceMeters int

	Assistance mobility.Assistance

	// IsLast marks the chronologically last trip of a multi-trip
	// passenger's day (I5).
	IsLast bool

	// AdjustedPickupTime is set by the greedy scheduler (C6) when it
	// shifts the pickup later to fit after a preceding leg. nil until
	// assigned.
	AdjustedPickupTime *time.Time

	// EarliestArrivalTime is the latest instant the vehicle may still
	// begin servicing this booking without violating the grace window
	// before the booked pickup time.
	EarliestArrivalTime time.Time

	// BeforePickupSec, AfterPickupSec, and DropoffUnloadingSec are the
	// request-level (possibly overridden) grace/unloading windows,
	// captured per trip so downstream derived-time formulas and the
	// greedy scheduler's comparison rule need no extra context
	// threading.
	BeforePickupSec     int
	AfterPickupSec      int
	DropoffUnloadingSec int
}

// LatestPickupTime is the latest instant this trip's pickup may occur
// without violating its grace window: pickup + after_pickup_in_sec when
// this is the passenger's last leg of the day, otherwise exactly the
// booked pickup instant (§4.2).
func (t *Trip) LatestPickupTime() time.Time {
	if t.IsLast {
		return t.PickupInstant.Add(time.Duration(t.AfterPickupSec) * time.Second)
	}
	return t.PickupInstant
}

// EffectivePickupTime is AdjustedPickupTime if the greedy scheduler has set
// one, otherwise the originally resolved PickupInstant.
func (t *Trip) EffectivePickupTime() time.Time {
	if t.AdjustedPickupTime != nil {
		return *t.AdjustedPickupTime
	}
	return t.PickupInstant
}

// DropoffTime is the effective pickup time plus the leg duration (§4.2).
func (t *Trip) DropoffTime() time.Time {
	return t.EffectivePickupTime().Add(time.Duration(t.DurationSec) * time.Second)
}

// FinishTime is the dropoff time plus the dropoff-unloading window (§4.2).
func (t *Trip) FinishTime() time.Time {
	return t.DropoffTime().Add(time.Duration(t.DropoffUnloadingSec) * time.Second)
}
