package builder

import (
	"testing"
	"time"

	"github.com/shiva/shuttlesched/internal/mobility"
	"github.com/shiva/shuttlesched/internal/model"
)

func mustTime(t *testing.T, layout, value string) time.Time {
	t.Helper()
	tm, err := time.Parse(layout, value)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return tm
}

func TestResolveDefaultsAppliesOverrides(t *testing.T) {
	before := 111
	req := model.ScheduleRequest{BeforePickupTime: &before}
	base := Defaults{BeforePickupSec: 300, AfterPickupSec: 300, DropoffUnloadingSec: 300}

	got := ResolveDefaults(req, base)
	if got.BeforePickupSec != 111 {
		t.Errorf("BeforePickupSec = %d, want 111", got.BeforePickupSec)
	}
	if got.AfterPickupSec != 300 {
		t.Errorf("AfterPickupSec = %d, want unchanged 300", got.AfterPickupSec)
	}
}

func TestMarkLastLegMarksChronologicallyLatest(t *testing.T) {
	layout := "2006-01-02 15:04"
	morning := mustTime(t, layout, "2024-06-01 09:00")
	evening := mustTime(t, layout, "2024-06-01 17:00")

	same := model.Booking{PassengerID: "p1"}
	t1 := &model.Trip{Booking: same, PickupInstant: morning, Assistance: mobility.Ambulatory}
	t2 := &model.Trip{Booking: same, PickupInstant: evening, Assistance: mobility.Ambulatory}

	// Constructed out of chronological order to prove sorting, not input
	// order, drives the marking.
	buckets := markLastLegAndPartition([]*model.Trip{t2, t1})

	ambulatory := buckets[mobility.Ambulatory.Priority()]
	if len(ambulatory) != 2 {
		t.Fatalf("expected 2 ambulatory trips, got %d", len(ambulatory))
	}

	if t1.IsLast {
		t.Error("morning trip must not be marked is_last")
	}
	if !t2.IsLast {
		t.Error("evening trip (chronologically latest) must be marked is_last")
	}
	if !t1.EarliestArrivalTime.Equal(t1.PickupInstant) {
		t.Error("first trip's earliest_arrival_time must equal its own pickup instant")
	}
}

func TestMarkLastLegSingleTripNotMarked(t *testing.T) {
	layout := "2006-01-02 15:04"
	pickup := mustTime(t, layout, "2024-06-01 09:00")
	trip := &model.Trip{Booking: model.Booking{PassengerID: "solo"}, PickupInstant: pickup}

	markLastLegAndPartition([]*model.Trip{trip})

	if trip.IsLast {
		t.Error("a passenger with a single trip must not have it marked is_last")
	}
}

func TestPriorityPartitioning(t *testing.T) {
	layout := "2006-01-02 15:04"
	stretcherTrip := &model.Trip{
		Booking:       model.Booking{PassengerID: "s"},
		PickupInstant: mustTime(t, layout, "2024-06-01 10:00"),
		Assistance:    mobility.Stretcher,
	}
	ambulatoryTrip := &model.Trip{
		Booking:       model.Booking{PassengerID: "a"},
		PickupInstant: mustTime(t, layout, "2024-06-01 09:00"),
		Assistance:    mobility.Ambulatory,
	}

	buckets := markLastLegAndPartition([]*model.Trip{stretcherTrip, ambulatoryTrip})

	if len(buckets[mobility.Stretcher.Priority()]) != 1 {
		t.Error("expected the stretcher trip in the stretcher bucket")
	}
	if len(buckets[mobility.Ambulatory.Priority()]) != 1 {
		t.Error("expected the ambulatory trip in the ambulatory bucket")
	}
}
