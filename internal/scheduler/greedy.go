package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shiva/shuttlesched/internal/direction"
	"github.com/shiva/shuttlesched/internal/model"
	"github.com/shiva/shuttlesched/pkg/timeutil"
)

// Greedy implements C6: priority-ordered best-fit assignment of trips to
// shuttles, creating shuttles on demand.
//
// Algorithm overview:
//
//  1. Process priority buckets in order (STRETCHER, WHEELCHAIR,
//     AMBULATORY). Within a bucket, trips are already sorted by pickup
//     instant by the builder.
//  2. For each trip, examine every existing shuttle in insertion order.
//     A shuttle fits if its last trip's finish time does not exceed the
//     new trip's latest allowable pickup, and the travel time from the
//     last trip's dropoff to the new trip's pickup still lands on or
//     before that bound.
//  3. Among the shuttles that fit, pick the "best" one per the
//     before/after-pickup-aware comparison rule below, rather than the
//     first or the closest — this is what keeps idle wait low without
//     ever letting a trip run late.
//  4. If no existing shuttle fits, allocate a new one. The greedy phase
//     never fails for lack of a fit; it only ever grows the fleet.
//
// Grounded on the teacher's MatchingService (internal/service/matching.go):
// same FETCH→FILTER→SCORE→SELECT shape, same log.Printf-per-candidate
// debug trail, same "greedy: keep the best, reject the rest" structure —
// generalized here from nearest-detour ride matching to priority-bucketed
// shuttle fit.
type Greedy struct {
	cache *direction.Cache
	debug DebugLogger
}

// NewGreedy builds a greedy scheduler backed by the given direction
// cache. debug may be nil to disable per-decision logging.
func NewGreedy(cache *direction.Cache, debug DebugLogger) *Greedy {
	return &Greedy{cache: cache, debug: debug}
}

// shuttleState is the scheduler's working representation of an in-progress
// shuttle: its derived name and the trips assigned so far, in order.
type shuttleState struct {
	name  string
	trips []*model.Trip
}

func (s *shuttleState) last() *model.Trip {
	return s.trips[len(s.trips)-1]
}

// Schedule assigns every trip in buckets to a shuttle and returns the
// resulting plan. Shuttle ordering reflects first-assignment order (I1).
func (g *Greedy) Schedule(ctx context.Context, buckets [3][]*model.Trip) ([]model.Shuttle, error) {
	var shuttles []*shuttleState

	for priority := 0; priority < len(buckets); priority++ {
		for _, trip := range buckets[priority] {
			best, bestArrival, hasBest, err := g.findBestFit(ctx, shuttles, trip)
			if err != nil {
				return nil, err
			}

			var adjusted time.Time
			switch {
			case !hasBest:
				adjusted = trip.PickupInstant
				shuttle := &shuttleState{
					name:  fmt.Sprintf("%d%s", len(shuttles)+1, trip.Assistance.String()),
					trips: []*model.Trip{trip},
				}
				shuttles = append(shuttles, shuttle)
				g.debug.logf("trip %s: no existing shuttle fit, created %s", trip.Booking.BookingID, shuttle.name)
			case bestArrival.Before(trip.PickupInstant):
				adjusted = trip.PickupInstant
				best.trips = append(best.trips, trip)
				g.debug.logf("trip %s: assigned to %s (arrival before pickup, using pickup time)", trip.Booking.BookingID, best.name)
			default:
				adjusted = bestArrival
				best.trips = append(best.trips, trip)
				g.debug.logf("trip %s: assigned to %s at arrival %s", trip.Booking.BookingID, best.name, bestArrival.Format(time.RFC3339))
			}

			adjustedCopy := adjusted
			trip.AdjustedPickupTime = &adjustedCopy
		}
	}

	return renderShuttles(shuttles), nil
}

// findBestFit examines every existing shuttle and returns the best
// candidate per the comparison rule in isBetter, or hasBest=false if none
// accept the trip.
func (g *Greedy) findBestFit(ctx context.Context, shuttles []*shuttleState, trip *model.Trip) (best *shuttleState, bestArrival time.Time, hasBest bool, err error) {
	for _, shuttle := range shuttles {
		last := shuttle.last()

		if last.FinishTime().After(trip.LatestPickupTime()) {
			g.debug.logf("trip %s: %s rejected, last trip finishes %s after latest pickup %s",
				trip.Booking.BookingID, shuttle.name, last.FinishTime().Format(time.RFC3339), trip.LatestPickupTime().Format(time.RFC3339))
			continue
		}

		var arrival time.Time
		if last.Booking.DropoffAddress == trip.Booking.PickupAddress {
			arrival = last.FinishTime()
		} else {
			_, seconds, fetchErr := g.cache.Fetch(ctx, last.Booking.DropoffAddress, trip.Booking.PickupAddress, nil)
			if fetchErr != nil {
				if errors.Is(fetchErr, direction.ErrNoRoute) {
					g.debug.logf("trip %s: %s skipped, no route from its last dropoff to this pickup", trip.Booking.BookingID, shuttle.name)
					continue
				}
				return nil, time.Time{}, false, fmt.Errorf("greedy: %w", fetchErr)
			}
			arrival = last.FinishTime().Add(time.Duration(seconds) * time.Second)
		}

		if arrival.After(trip.LatestPickupTime()) {
			g.debug.logf("trip %s: %s rejected, arrival %s after latest pickup %s",
				trip.Booking.BookingID, shuttle.name, arrival.Format(time.RFC3339), trip.LatestPickupTime().Format(time.RFC3339))
			continue
		}

		if !hasBest || isBetter(arrival, bestArrival, trip) {
			best, bestArrival, hasBest = shuttle, arrival, true
		}
	}
	return best, bestArrival, hasBest, nil
}

// isBetter implements the "better" comparison rule (§4.3): given a
// candidate arrival and the current best, and the trip being placed,
// decide which arrival is preferable.
//
// The threshold is the trip's own pickup time for its last leg of the
// day, or pickup minus the before-pickup grace window otherwise. If the
// current best already arrives after that threshold (it's cutting it
// close or already late), an earlier arrival is strictly better. Once the
// current best safely beats the threshold, a later arrival is better —
// it means less idle time waiting at the curb.
func isBetter(coming, current time.Time, t *model.Trip) bool {
	threshold := t.PickupInstant
	if !t.IsLast {
		threshold = threshold.Add(-time.Duration(t.BeforePickupSec) * time.Second)
	}

	if current.After(threshold) {
		return coming.Before(current)
	}
	return coming.After(current)
}

// renderShuttles converts the scheduler's working state into the output
// Shuttle shape, formatting each trip's instants in its own resolved
// timezone.
func renderShuttles(shuttles []*shuttleState) []model.Shuttle {
	out := make([]model.Shuttle, 0, len(shuttles))
	for _, s := range shuttles {
		shuttle := model.Shuttle{
			ShuttleName: s.name,
			Trips:       make([]model.OutputTrip, 0, len(s.trips)),
		}
		for _, t := range s.trips {
			shuttle.Trips = append(shuttle.Trips, toOutputTrip(t))
		}
		out = append(out, shuttle)
	}
	return out
}

func toOutputTrip(t *model.Trip) model.OutputTrip {
	return model.OutputTrip{
		Booking:              t.Booking,
		ScheduledPickupTime:  timeutil.To24Hour(t.EffectivePickupTime()),
		ScheduledDropoffTime: timeutil.To24Hour(t.DropoffTime()),
		DurationInSec:        t.DurationSec,
		DistanceInMeter:      t.DistanceMeters,
		IsLast:               t.IsLast,
	}
}
