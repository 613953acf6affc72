package model

import "time"

// DirectionEntry is a cached travel-distance / travel-duration pair
// between an address pair, keyed on "{origin}|{destination}".
type DirectionEntry struct {
	Key                string    `json:"key" bson:"key"`
	Origin             string    `json:"origin" bson:"origin"`
	Destination        string    `json:"destination" bson:"destination"`
	DistanceInMeter    int       `json:"distance_in_meter" bson:"distance_in_meter"`
	DurationInSeconds  int       `json:"duration_in_seconds" bson:"duration_in_seconds"`
	CreatedAt          time.Time `json:"created_at" bson:"created_at"`
}

// DirectionKey builds the composite cache key for an (origin, destination)
// pair.
func DirectionKey(origin, destination string) string {
	return origin + "|" + destination
}
