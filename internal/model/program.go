package model

import (
	"time"

	"github.com/shiva/shuttlesched/internal/mobility"
)

// Vehicle is a single fleet member: a stable id, a display name, and the
// (non-empty) list of mobility-assistance types it can carry.
type Vehicle struct {
	ID            string   `json:"id" bson:"id"`
	Name          string   `json:"name" bson:"name"`
	Assistance    []string `json:"assistance" bson:"assistance"`
	LicensePlate  string   `json:"license_plate,omitempty" bson:"license_plate,omitempty"`
	Capacity      int      `json:"capacity,omitempty" bson:"capacity,omitempty"`
}

// Compatible reports whether this vehicle can serve a booking requiring
// the given assistance: true if any of the vehicle's assistance
// capabilities is compatible with b.
func (v Vehicle) Compatible(b mobility.Assistance) bool {
	for _, tag := range v.Assistance {
		if mobility.Parse(tag).Compatible(b) {
			return true
		}
	}
	return false
}

// Program is a named fleet: a unique name across the store, owning a list
// of Vehicles. Mutation bumps UpdatedAt.
type Program struct {
	ID        string    `json:"id" bson:"id"`
	Name      string    `json:"name" bson:"name"`
	Vehicles  []Vehicle `json:"vehicles" bson:"vehicles"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
