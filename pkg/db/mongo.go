// Package db wires the MongoDB client the scheduling engine's three
// collections (directions, programs, tasks) are stored in.
//
// Adapted from the teacher's pkg/db/postgres.go: same connect-then-ping
// discipline, same health-check helper shape, now pointed at Mongo
// because the persistence layout (TTL index on directions.created_at,
// unique indexes on programs.id/name and tasks.id) is mandated by this
// system's spec regardless of what store the teacher used.
package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shiva/shuttlesched/config"
)

// DirectionsCollection, ProgramsCollection, and TasksCollection name the
// three logical collections spec.md §6 mandates.
const (
	DirectionsCollection = "directions"
	ProgramsCollection   = "programs"
	TasksCollection      = "tasks"
)

// NewMongoClient connects to MongoDB and verifies connectivity with a
// bounded-timeout ping, mirroring the teacher's NewPostgresPool.
func NewMongoClient(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(10 * time.Second).
		SetMaxPoolSize(50)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo: ping failed: %w", err)
	}

	return client, nil
}

// HealthCheck pings the Mongo client and returns nil if healthy.
func HealthCheck(ctx context.Context, client *mongo.Client) error {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return client.Ping(pingCtx, nil)
}

// EnsureIndexes creates the unique and TTL indexes the persistence layout
// requires. Index creation is idempotent — Mongo treats a duplicate
// CreateOne with an identical spec as a no-op — so this can run on every
// startup.
func EnsureIndexes(ctx context.Context, database *mongo.Database, directionTTLSeconds int32) error {
	directions := database.Collection(DirectionsCollection)
	if _, err := directions.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(directionTTLSeconds),
		},
	}); err != nil {
		return fmt.Errorf("mongo: ensure directions indexes: %w", err)
	}

	programs := database.Collection(ProgramsCollection)
	if _, err := programs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
	}); err != nil {
		return fmt.Errorf("mongo: ensure programs indexes: %w", err)
	}

	tasks := database.Collection(TasksCollection)
	if _, err := tasks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("mongo: ensure tasks index: %w", err)
	}

	return nil
}
