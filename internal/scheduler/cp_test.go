package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shiva/shuttlesched/internal/mobility"
	"github.com/shiva/shuttlesched/internal/model"
)

func vehicle(id, name string, assistance ...string) model.Vehicle {
	return model.Vehicle{ID: id, Name: name, Assistance: assistance}
}

func TestCPScheduleSimpleFeasible(t *testing.T) {
	layout := "2006-01-02 15:04"
	pickup := must(t, layout, "2024-06-01 09:00")
	trip := baseTrip("b1", "100 Main St", "200 Elm St", pickup)
	trip.DurationSec = 300

	cp := NewCP(newTestCache(nil), nil)
	shuttles, err := cp.Schedule(context.Background(), []*model.Trip{trip}, CPOptions{
		Vehicles: []model.Vehicle{vehicle("v1", "Van 1", "AMBULATORY")},
	})
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if len(shuttles) != 1 || len(shuttles[0].Trips) != 1 {
		t.Fatalf("expected 1 shuttle with 1 trip, got %+v", shuttles)
	}
	if shuttles[0].ShuttleName != "Van 1" {
		t.Errorf("shuttle name = %q, want Van 1", shuttles[0].ShuttleName)
	}
}

func TestCPScheduleInfeasibleNoCompatibleVehicle(t *testing.T) {
	layout := "2006-01-02 15:04"
	pickup := must(t, layout, "2024-06-01 09:00")
	trip := baseTrip("b1", "100 Main St", "200 Elm St", pickup)
	trip.Assistance = mobility.Stretcher

	cp := NewCP(newTestCache(nil), nil)
	_, err := cp.Schedule(context.Background(), []*model.Trip{trip}, CPOptions{
		Vehicles: []model.Vehicle{vehicle("v1", "Van 1", "AMBULATORY")},
	})
	if !errors.Is(err, ErrNoSchedule) {
		t.Fatalf("expected ErrNoSchedule when no vehicle is stretcher-compatible, got %v", err)
	}
}

func TestCPScheduleMinimizeVehiclesPacksOntoOneVan(t *testing.T) {
	layout := "2006-01-02 15:04"
	t1 := baseTrip("b1", "A", "B", must(t, layout, "2024-06-01 09:00"))
	t1.DurationSec = 300
	t2 := baseTrip("b2", "B", "C", must(t, layout, "2024-06-01 09:30"))
	t2.DurationSec = 300

	cp := NewCP(newTestCache(nil), nil)
	shuttles, err := cp.Schedule(context.Background(), []*model.Trip{t1, t2}, CPOptions{
		Vehicles:         []model.Vehicle{vehicle("v1", "Van 1", "AMBULATORY"), vehicle("v2", "Van 2", "AMBULATORY")},
		MinimizeVehicles: true,
	})
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	used := 0
	for _, s := range shuttles {
		if len(s.Trips) > 0 {
			used++
		}
	}
	if used != 1 {
		t.Errorf("expected minimize_vehicles to pack both trips onto 1 van, used %d", used)
	}
}

func TestCPScheduleChainKeepsSamePassengerTogether(t *testing.T) {
	layout := "2006-01-02 15:04"
	passenger := model.Booking{PassengerID: "p1"}

	t1 := &model.Trip{
		Booking:             model.Booking{BookingID: "b1", PassengerID: passenger.PassengerID, PickupAddress: "A", DropoffAddress: "B"},
		PickupInstant:       must(t, layout, "2024-06-01 08:00"),
		DurationSec:         300,
		DropoffUnloadingSec: 120,
		Assistance:          mobility.Ambulatory,
	}
	t1.EarliestArrivalTime = t1.PickupInstant

	t2 := &model.Trip{
		// Pickup address matches t1's dropoff so the same-address shortcut
		// applies and no direction-cache lookup is needed for this leg.
		Booking:             model.Booking{BookingID: "b2", PassengerID: passenger.PassengerID, PickupAddress: "B", DropoffAddress: "D"},
		PickupInstant:       must(t, layout, "2024-06-01 17:00"),
		DurationSec:         300,
		DropoffUnloadingSec: 120,
		IsLast:              true,
		AfterPickupSec:      300,
		Assistance:          mobility.Ambulatory,
	}
	t2.EarliestArrivalTime = t2.PickupInstant

	cp := NewCP(newTestCache(nil), nil)
	shuttles, err := cp.Schedule(context.Background(), []*model.Trip{t1, t2}, CPOptions{
		Vehicles:                      []model.Vehicle{vehicle("v1", "Van 1", "AMBULATORY"), vehicle("v2", "Van 2", "AMBULATORY")},
		ChainBookingsForSamePassenger: true,
	})
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	var found *model.Shuttle
	for i := range shuttles {
		for _, trip := range shuttles[i].Trips {
			if trip.BookingID == "b1" {
				found = &shuttles[i]
			}
		}
	}
	if found == nil {
		t.Fatal("booking b1 not found in any shuttle")
	}
	hasB2 := false
	for _, trip := range found.Trips {
		if trip.BookingID == "b2" {
			hasB2 = true
		}
	}
	if !hasB2 {
		t.Error("chain_bookings_for_same_passenger must keep b1 and b2 on the same vehicle")
	}
}

func TestCPScheduleRespectsTimeout(t *testing.T) {
	layout := "2006-01-02 15:04"
	trip := baseTrip("b1", "A", "B", must(t, layout, "2024-06-01 09:00"))

	cp := NewCP(newTestCache(nil), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // already cancelled

	_, err := cp.Schedule(ctx, []*model.Trip{trip}, CPOptions{
		Vehicles: []model.Vehicle{vehicle("v1", "Van 1", "AMBULATORY")},
		Timeout:  time.Second,
	})
	if !errors.Is(err, ErrNoSchedule) {
		t.Fatalf("expected ErrNoSchedule when the context is already cancelled, got %v", err)
	}
}
