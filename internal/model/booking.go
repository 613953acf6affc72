// Package model holds the wire and domain types shared across the
// scheduling engine: bookings, trips, shuttles, fleet data, the direction
// cache entry, and background tasks.
package model

import "strings"

// Booking is a single passenger ride request as submitted in a
// ScheduleRequest. Fields beyond those the scheduling engine reads are
// passed through to the output unchanged.
type Booking struct {
	BookingID               string   `json:"booking_id"`
	PassengerID              string   `json:"passenger_id,omitempty"`
	FirstName                string   `json:"first_name,omitempty"`
	LastName                 string   `json:"last_name,omitempty"`
	AdditionalPassengerCount int      `json:"additional_passenger_count"`
	MobilityAssistance       []string `json:"mobility_assistance,omitempty"`
	ProgramName              string   `json:"program_name,omitempty"`
	PickupTime               string   `json:"pickup_time"`
	PickupAddress            string   `json:"pickup_address"`
	DropoffAddress            string  `json:"dropoff_address"`
	RideStatus               int      `json:"ride_status"`
	TotalSeatCount           int      `json:"total_seat_count,omitempty"`

	// Optional geo/identifier/note fields that are never read by the
	// scheduling engine, only echoed back on the output trip.
	PickupLatitude   *float64 `json:"pickup_latitude,omitempty"`
	PickupLongitude  *float64 `json:"pickup_longitude,omitempty"`
	DropoffLatitude  *float64 `json:"dropoff_latitude,omitempty"`
	DropoffLongitude *float64 `json:"dropoff_longitude,omitempty"`
	ExternalID       string   `json:"external_id,omitempty"`
	Notes            string   `json:"notes,omitempty"`
}

// PassengerKey returns the identity used to group a passenger's trips for
// last-leg marking and same-passenger chaining: the passenger id when
// present, otherwise the concatenation of first and last name.
func (b Booking) PassengerKey() string {
	if b.PassengerID != "" {
		return b.PassengerID
	}
	return strings.TrimSpace(b.FirstName + " " + b.LastName)
}
