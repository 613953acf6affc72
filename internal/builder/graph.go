package builder

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shiva/shuttlesched/internal/direction"
	"github.com/shiva/shuttlesched/internal/mobility"
	"github.com/shiva/shuttlesched/internal/model"
	"github.com/shiva/shuttlesched/pkg/timeutil"
)

// Defaults holds the request-overridable grace/unloading windows (§4.2).
type Defaults struct {
	BeforePickupSec     int
	AfterPickupSec      int
	DropoffUnloadingSec int
}

// ResolveDefaults applies per-request overrides over base defaults.
func ResolveDefaults(req model.ScheduleRequest, base Defaults) Defaults {
	d := base
	if req.BeforePickupTime != nil {
		d.BeforePickupSec = *req.BeforePickupTime
	}
	if req.AfterPickupTime != nil {
		d.AfterPickupSec = *req.AfterPickupTime
	}
	if req.DropoffUnloadingTime != nil {
		d.DropoffUnloadingSec = *req.DropoffUnloadingTime
	}
	return d
}

// Builder converts ScheduleRequests into priority-bucketed Trip records.
type Builder struct {
	cache *direction.Cache
}

// New builds a graph builder backed by the given direction cache.
func New(cache *direction.Cache) *Builder {
	return &Builder{cache: cache}
}

// Build executes the five steps of §4.2 and returns three priority
// buckets (index 0 = Stretcher, 1 = Wheelchair, 2 = Ambulatory), each
// sorted by pickup instant ascending.
func (b *Builder) Build(ctx context.Context, req model.ScheduleRequest, defaults Defaults) ([3][]*model.Trip, error) {
	var buckets [3][]*model.Trip

	trips := make([]*model.Trip, 0, len(req.Bookings))

	// Steps 1-3: resolve pickup instant, fetch the leg, emit a Trip.
	for _, booking := range req.Bookings {
		pickupInstant, err := timeutil.ResolvePickupInstant(req.Date, booking.PickupTime, booking.PickupAddress)
		if err != nil {
			return buckets, fmt.Errorf("%w: booking %s: %v", ErrBadInput, booking.BookingID, err)
		}

		meters, seconds, err := b.cache.Fetch(ctx, booking.PickupAddress, booking.DropoffAddress, &pickupInstant)
		if err != nil {
			return buckets, fmt.Errorf("builder: booking %s: %w", booking.BookingID, err)
		}

		assistance := mobility.ParseList(booking.MobilityAssistance)

		trip := &model.Trip{
			Booking:             booking,
			PickupInstant:       pickupInstant,
			DurationSec:         seconds,
			DistanceMeters:      meters,
			Assistance:          assistance,
			BeforePickupSec:     defaults.BeforePickupSec,
			AfterPickupSec:      defaults.AfterPickupSec,
			DropoffUnloadingSec: defaults.DropoffUnloadingSec,
		}
		trip.EarliestArrivalTime = pickupInstant.Add(-time.Duration(defaults.BeforePickupSec) * time.Second)

		trips = append(trips, trip)
	}

	return markLastLegAndPartition(trips), nil
}

// markLastLegAndPartition executes steps 4 and 5 of §4.2 in isolation
// from the direction cache, so the grouping/partitioning logic can be
// unit tested without standing up a routing provider or MongoDB.
func markLastLegAndPartition(trips []*model.Trip) [3][]*model.Trip {
	var buckets [3][]*model.Trip

	// Step 4: last-leg marking. Sort by pickup instant, group by
	// passenger, mark each multi-trip passenger's chronologically latest
	// trip is_last, and pin the first trip's earliest arrival to its own
	// pickup (the vehicle should not pre-arrive ahead of the first leg of
	// a multi-leg day).
	sorted := make([]*model.Trip, len(trips))
	copy(sorted, trips)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PickupInstant.Before(sorted[j].PickupInstant)
	})

	byPassenger := map[string][]*model.Trip{}
	for _, t := range sorted {
		key := t.Booking.PassengerKey()
		byPassenger[key] = append(byPassenger[key], t)
	}
	for _, group := range byPassenger {
		if len(group) < 2 {
			continue
		}
		group[len(group)-1].IsLast = true
		group[0].EarliestArrivalTime = group[0].PickupInstant
	}

	// Step 5: priority partitioning, preserving the pickup-instant order
	// established above.
	for _, t := range sorted {
		p := t.Assistance.Priority()
		buckets[p] = append(buckets[p], t)
	}

	return buckets
}

