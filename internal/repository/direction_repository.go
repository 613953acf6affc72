package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shiva/shuttlesched/internal/model"
)

// DirectionRepository is the C2 storage surface: a content-addressed map
// of (origin, destination) → (meters, seconds, created_at).
type DirectionRepository struct {
	col *mongo.Collection
}

// NewDirectionRepository wraps the directions collection.
func NewDirectionRepository(database *mongo.Database) *DirectionRepository {
	return &DirectionRepository{col: database.Collection("directions")}
}

// Lookup returns the stored entry for key, or ErrNotFound if absent.
// Expiry is intentionally not checked here — the TTL index reaps expired
// rows in the background, while read-time staleness (honoring a
// dynamically-reconfigured TTL before the index catches up) is the
// caller's (C2 cache's) responsibility, per spec.md §4.1's "preferred"
// read-time enforcement.
func (r *DirectionRepository) Lookup(ctx context.Context, key string) (*model.DirectionEntry, error) {
	var entry model.DirectionEntry
	err := r.col.FindOne(ctx, bson.M{"key": key}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("direction repository: lookup %q: %w", key, err)
	}
	return &entry, nil
}

// Upsert stores (or refreshes) the entry for origin/destination, setting
// created_at to now.
func (r *DirectionRepository) Upsert(ctx context.Context, origin, destination string, meters, seconds int) (*model.DirectionEntry, error) {
	key := model.DirectionKey(origin, destination)
	entry := model.DirectionEntry{
		Key:               key,
		Origin:            origin,
		Destination:       destination,
		DistanceInMeter:   meters,
		DurationInSeconds: seconds,
		CreatedAt:         time.Now().UTC(),
	}

	_, err := r.col.ReplaceOne(ctx, bson.M{"key": key}, entry, options.Replace().SetUpsert(true))
	if err != nil {
		return nil, fmt.Errorf("direction repository: upsert %q: %w", key, err)
	}
	return &entry, nil
}
