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

// TaskRepository is the C8 storage surface for the persistent scheduling
// job queue.
type TaskRepository struct {
	col *mongo.Collection
}

// NewTaskRepository wraps the tasks collection.
func NewTaskRepository(database *mongo.Database) *TaskRepository {
	return &TaskRepository{col: database.Collection("tasks")}
}

// Create inserts a new PENDING task and returns it.
func (r *TaskRepository) Create(ctx context.Context, id string, req model.ScheduleRequest) (*model.Task, error) {
	now := time.Now().UTC()
	task := model.Task{
		ID:        id,
		Request:   req,
		Status:    model.TaskPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.col.InsertOne(ctx, task); err != nil {
		return nil, fmt.Errorf("task repository: create: %w", err)
	}
	return &task, nil
}

// Get returns a task by id, or ErrNotFound.
func (r *TaskRepository) Get(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("task repository: get %q: %w", id, err)
	}
	return &task, nil
}

// ClaimBatch atomically transitions up to limit PENDING tasks to
// PROCESSING and returns their ids. No id returned by one ClaimBatch call
// can be returned by a concurrent one (spec.md's "Claim exclusivity"
// invariant).
//
// The source system selects a batch with a plain find() then updates
// every matched id with update_many — two separate operations, so two
// concurrent pollers can both observe the same PENDING rows before either
// update lands. This rewrite instead loops a single atomic
// FindOneAndUpdate (MongoDB guarantees each such call is applied
// indivisibly) up to limit times; every won document is claimed by
// exactly one caller, which is the compare-and-swap-per-id fallback
// spec.md's C9 section calls for when a single atomic batch update isn't
// expressible.
func (r *TaskRepository) ClaimBatch(ctx context.Context, limit int) ([]string, error) {
	ids := make([]string, 0, limit)

	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetReturnDocument(options.Before)

	for i := 0; i < limit; i++ {
		var task model.Task
		err := r.col.FindOneAndUpdate(ctx,
			bson.M{"status": model.TaskPending},
			bson.M{"$set": bson.M{"status": model.TaskProcessing, "updated_at": time.Now().UTC()}},
			opts,
		).Decode(&task)

		if errors.Is(err, mongo.ErrNoDocuments) {
			break
		}
		if err != nil {
			return ids, fmt.Errorf("task repository: claim batch: %w", err)
		}
		ids = append(ids, task.ID)
	}

	return ids, nil
}

// Finalize writes a terminal (or interim) status for a task, bumping
// updated_at.
func (r *TaskRepository) Finalize(ctx context.Context, id string, status model.TaskStatus, response *model.ScheduleResponse, errorMessage string) error {
	update := bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}
	if response != nil {
		update["response"] = response
	}
	if errorMessage != "" {
		update["error_message"] = errorMessage
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": update})
	if err != nil {
		return fmt.Errorf("task repository: finalize %q: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
