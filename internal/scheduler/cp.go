package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shiva/shuttlesched/internal/direction"
	"github.com/shiva/shuttlesched/internal/model"
)

// CP implements C7: the constraint-programming formulation of the same
// trip-to-vehicle assignment problem C6 solves greedily, but against a
// fixed fleet and an explicit objective.
//
// No pure-Go CP-SAT or MILP solver exists anywhere in this repository's
// dependency corpus or the wider ecosystem it draws from (see DESIGN.md),
// so the model is solved by bounded backtracking search instead: depth-
// first assignment of each passenger chain to a compatible vehicle,
// pruned against the best objective value found so far, bounded by a
// wall-clock deadline. Every candidate assignment the search accepts
// satisfies C7.1-C7.4 by construction, and C7.5 by construction of the
// chains themselves; the search is exhaustive (and therefore optimal)
// whenever it completes before the deadline, and falls back to the best
// feasible solution found so far otherwise.
type CP struct {
	cache *direction.Cache
	debug DebugLogger
}

// NewCP builds a CP scheduler backed by the given direction cache. debug
// may be nil to disable per-decision logging.
func NewCP(cache *direction.Cache, debug DebugLogger) *CP {
	return &CP{cache: cache, debug: debug}
}

// CPOptions carries the fixed fleet and the optimization objectives a
// request may select (§4.4).
type CPOptions struct {
	Vehicles                      []model.Vehicle
	ChainBookingsForSamePassenger bool
	MinimizeVehicles              bool
	MinimizeTotalDuration         bool
	// Timeout bounds the search's wall-clock budget. Zero selects the
	// spec default of 600 seconds.
	Timeout time.Duration
}

const defaultCPTimeout = 600 * time.Second

// chain is a group of trips that must be assigned to the same vehicle:
// either a single trip, or (when chain_bookings_for_same_passenger is
// requested) every trip belonging to one passenger, in pickup order.
type chain struct {
	trips []*model.Trip
}

func (c chain) assistanceCompatible(v model.Vehicle) bool {
	for _, t := range c.trips {
		if !v.Compatible(t.Assistance) {
			return false
		}
	}
	return true
}

// vehicleState is the search's working record of what a vehicle has been
// assigned so far, in pickup order — the same shape greedy's shuttleState
// uses for its fit check, since C7.3/C7.4 are the CP-phrased version of
// the same constraint.
type vehicleState struct {
	vehicle model.Vehicle
	trips   []*model.Trip
}

// Schedule searches for an assignment of trips to opts.Vehicles
// satisfying C7.1-C7.5 and, if requested, minimizing the stated
// objective. It returns ErrNoSchedule, wrapping the terminal reason, when
// no feasible assignment exists or the search exhausts its time budget
// without finding one.
func (c *CP) Schedule(ctx context.Context, trips []*model.Trip, opts CPOptions) ([]model.Shuttle, error) {
	if len(opts.Vehicles) == 0 {
		return nil, fmt.Errorf("%w: model invalid: no vehicles in fleet", ErrNoSchedule)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultCPTimeout
	}
	deadline := time.Now().Add(timeout)

	chains := buildChains(trips, opts.ChainBookingsForSamePassenger)

	// C7.2, applied up front: a chain with no compatible vehicle anywhere
	// in the fleet makes the whole model infeasible, independent of
	// search order.
	for _, ch := range chains {
		compatible := false
		for _, v := range opts.Vehicles {
			if ch.assistanceCompatible(v) {
				compatible = true
				break
			}
		}
		if !compatible {
			return nil, fmt.Errorf("%w: infeasible: no vehicle compatible with booking %s", ErrNoSchedule, ch.trips[0].Booking.BookingID)
		}
	}

	s := &cpSearch{
		cp:       c,
		opts:     opts,
		deadline: deadline,
		states:   make([]vehicleState, len(opts.Vehicles)),
	}
	for i, v := range opts.Vehicles {
		s.states[i] = vehicleState{vehicle: v}
	}

	timedOut, err := s.assign(ctx, chains, 0)
	if err != nil {
		return nil, err
	}

	if s.best == nil {
		if timedOut {
			return nil, fmt.Errorf("%w: timeout after %s", ErrNoSchedule, timeout)
		}
		return nil, fmt.Errorf("%w: infeasible", ErrNoSchedule)
	}

	return renderCPSolution(s.best), nil
}

// buildChains groups trips into same-vehicle units. Without chaining,
// each trip is its own singleton chain; the resulting order is by
// pickup instant with a booking-id tie-break (§7's resolution of the
// spec's tie-break open question, applied here for deterministic search
// order as well as correctness).
func buildChains(trips []*model.Trip, chainSamePassenger bool) []chain {
	sorted := make([]*model.Trip, len(trips))
	copy(sorted, trips)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].PickupInstant.Equal(sorted[j].PickupInstant) {
			return sorted[i].Booking.BookingID < sorted[j].Booking.BookingID
		}
		return sorted[i].PickupInstant.Before(sorted[j].PickupInstant)
	})

	if !chainSamePassenger {
		chains := make([]chain, 0, len(sorted))
		for _, t := range sorted {
			chains = append(chains, chain{trips: []*model.Trip{t}})
		}
		return chains
	}

	byPassenger := map[string][]*model.Trip{}
	var order []string
	for _, t := range sorted {
		key := t.Booking.PassengerKey()
		if _, seen := byPassenger[key]; !seen {
			order = append(order, key)
		}
		byPassenger[key] = append(byPassenger[key], t)
	}

	chains := make([]chain, 0, len(order))
	for _, key := range order {
		chains = append(chains, chain{trips: byPassenger[key]})
	}
	return chains
}

// cpSearch holds the mutable state threaded through the recursive search:
// the per-vehicle assignment under construction, and the best complete
// assignment found so far together with its objective value.
type cpSearch struct {
	cp       *CP
	opts     CPOptions
	deadline time.Time
	states   []vehicleState

	best      []vehicleState
	bestValue int
	hasBest   bool
}

// assign tries every compatible, fitting vehicle for chains[idx], recurses
// on the remainder, and backtracks. It returns timedOut=true if the
// deadline was hit at any point during the search below this call.
func (s *cpSearch) assign(ctx context.Context, chains []chain, idx int) (timedOut bool, err error) {
	if ctx.Err() != nil {
		return true, nil
	}
	if time.Now().After(s.deadline) {
		return true, nil
	}

	if idx == len(chains) {
		value := s.objective()
		if !s.hasBest || value < s.bestValue {
			s.hasBest = true
			s.bestValue = value
			s.best = cloneStates(s.states)
			s.cp.debug.logf("cp: improved solution, objective=%d", value)
		}
		return false, nil
	}

	// Branch-and-bound: once a complete solution exists, any partial
	// assignment whose vehicle count alone already exceeds its objective
	// value cannot improve on it, so prune.
	if s.hasBest && s.objectiveFloorExceeds() {
		return false, nil
	}

	ch := chains[idx]
	anyTimeout := false

	for i := range s.states {
		if !ch.assistanceCompatible(s.states[i].vehicle) {
			continue
		}
		if !s.cp.chainFits(ctx, s.states[i], ch) {
			continue
		}

		original := s.states[i].trips
		s.states[i].trips = append(append([]*model.Trip{}, original...), ch.trips...)

		to, err := s.assign(ctx, chains, idx+1)
		s.states[i].trips = original
		if err != nil {
			return false, err
		}
		anyTimeout = anyTimeout || to
		if to {
			break
		}
	}

	return anyTimeout, nil
}

// objective computes the value of the fully-assigned states per the
// requested minimization. Lower is better for both supported objectives;
// when neither is requested, every feasible complete assignment is
// equally good (value 0), so the search accepts the first one it finds.
func (s *cpSearch) objective() int {
	used := 0
	totalDuration := 0
	for _, st := range s.states {
		if len(st.trips) == 0 {
			continue
		}
		used++
		first := st.trips[0].EarliestArrivalTime
		last := st.trips[len(st.trips)-1].FinishTime()
		totalDuration += int(last.Sub(first).Seconds())
	}

	value := 0
	if s.opts.MinimizeVehicles {
		value += used * 1_000_000
	}
	if s.opts.MinimizeTotalDuration {
		value += totalDuration
	}
	return value
}

// objectiveFloorExceeds reports whether the number of vehicles already
// used in the partial assignment under construction alone is enough to
// rule out beating bestValue — a cheap, vehicle-count-only lower bound
// used to prune the minimize_vehicles objective. It never prunes when
// that objective is not requested.
func (s *cpSearch) objectiveFloorExceeds() bool {
	if !s.opts.MinimizeVehicles {
		return false
	}
	used := 0
	for _, st := range s.states {
		if len(st.trips) > 0 {
			used++
		}
	}
	return used*1_000_000 > s.bestValue
}

// chainFits reports whether every trip in ch can be appended, in order,
// to st's existing trip list without violating C7.3 (pickup bound) or
// C7.4 (non-overlap), fetching cross-address travel time via C2 as
// needed. A provider error other than NoRoute is swallowed into "does
// not fit" here: the search simply tries a different vehicle, since
// (unlike greedy's single pass) a search has alternatives to fall back
// on; ErrNoSchedule's INFEASIBLE status already covers the case where no
// alternative exists.
func (c *CP) chainFits(ctx context.Context, st vehicleState, ch chain) bool {
	trips := append(append([]*model.Trip{}, st.trips...), ch.trips...)
	for i := 1; i < len(trips); i++ {
		prev, cur := trips[i-1], trips[i]

		if prev.FinishTime().After(cur.LatestPickupTime()) {
			return false
		}

		var arrival time.Time
		if prev.Booking.DropoffAddress == cur.Booking.PickupAddress {
			arrival = prev.FinishTime()
		} else {
			_, seconds, err := c.cache.Fetch(ctx, prev.Booking.DropoffAddress, cur.Booking.PickupAddress, nil)
			if err != nil {
				return false
			}
			arrival = prev.FinishTime().Add(time.Duration(seconds) * time.Second)
		}

		if arrival.After(cur.LatestPickupTime()) {
			return false
		}
	}
	return true
}

func cloneStates(states []vehicleState) []vehicleState {
	out := make([]vehicleState, len(states))
	for i, st := range states {
		out[i] = vehicleState{vehicle: st.vehicle, trips: append([]*model.Trip{}, st.trips...)}
	}
	return out
}

// renderCPSolution converts a solved vehicleState set into the output
// Shuttle shape, in fleet order, skipping vehicles with no assigned
// trips. Each trip's scheduled pickup is its own resolved pickup instant
// (§4.4's time[v,t] is bounded above by pickup_minutes(t); this solver
// never chooses to start earlier and wait, so the bound is met with
// equality), and scheduled dropoff adds the leg duration, matching
// greedy's EffectivePickupTime/DropoffTime derivation.
func renderCPSolution(states []vehicleState) []model.Shuttle {
	out := make([]model.Shuttle, 0, len(states))
	for _, st := range states {
		if len(st.trips) == 0 {
			continue
		}
		shuttle := model.Shuttle{
			ShuttleName: st.vehicle.Name,
			VehicleID:   st.vehicle.ID,
			Trips:       make([]model.OutputTrip, 0, len(st.trips)),
		}
		for _, t := range st.trips {
			shuttle.Trips = append(shuttle.Trips, toOutputTrip(t))
		}
		out = append(out, shuttle)
	}
	return out
}
