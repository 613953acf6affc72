package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shiva/shuttlesched/internal/model"
)

// ProgramRepository is the C4 storage surface for fleets (programs) and
// their vehicles. It is explicitly out of the scheduling engine's core
// scope (spec.md §1) — a thin translation layer — but still needs the
// full CRUD + vehicle sub-resource surface spec.md §6 names.
type ProgramRepository struct {
	col *mongo.Collection
}

// NewProgramRepository wraps the programs collection.
func NewProgramRepository(database *mongo.Database) *ProgramRepository {
	return &ProgramRepository{col: database.Collection("programs")}
}

// Create inserts a new program. Returns ErrDuplicateName if the name is
// already taken.
func (r *ProgramRepository) Create(ctx context.Context, program model.Program) (*model.Program, error) {
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now
	if program.Vehicles == nil {
		program.Vehicles = []model.Vehicle{}
	}

	_, err := r.col.InsertOne(ctx, program)
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicateName
	}
	if err != nil {
		return nil, fmt.Errorf("program repository: create: %w", err)
	}
	return &program, nil
}

// GetByID returns a program by id, or ErrNotFound.
func (r *ProgramRepository) GetByID(ctx context.Context, id string) (*model.Program, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

// GetByName returns a program by name, or ErrNotFound.
func (r *ProgramRepository) GetByName(ctx context.Context, name string) (*model.Program, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *ProgramRepository) findOne(ctx context.Context, filter bson.M) (*model.Program, error) {
	var program model.Program
	err := r.col.FindOne(ctx, filter).Decode(&program)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("program repository: find: %w", err)
	}
	return &program, nil
}

// List returns every program, in no particular order.
func (r *ProgramRepository) List(ctx context.Context) ([]model.Program, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("program repository: list: %w", err)
	}
	defer cursor.Close(ctx)

	programs := []model.Program{}
	if err := cursor.All(ctx, &programs); err != nil {
		return nil, fmt.Errorf("program repository: decode list: %w", err)
	}
	return programs, nil
}

// Update replaces name and vehicles for the program with the given id,
// bumping updated_at. Returns ErrNotFound if no such program exists, or
// ErrDuplicateName if name collides with another program.
func (r *ProgramRepository) Update(ctx context.Context, id string, name *string, vehicles []model.Vehicle) (*model.Program, error) {
	update := bson.M{"updated_at": time.Now().UTC()}
	if name != nil {
		update["name"] = *name
	}
	if vehicles != nil {
		update["vehicles"] = vehicles
	}

	res := r.col.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": update})
	var updated model.Program
	if err := res.Decode(&updated); errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	} else if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("program repository: update: %w", err)
	}

	return r.GetByID(ctx, id)
}

// Delete removes a program by id. Returns ErrNotFound if it did not
// exist.
func (r *ProgramRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("program repository: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddVehicle appends a vehicle to the program's fleet.
func (r *ProgramRepository) AddVehicle(ctx context.Context, programID string, vehicle model.Vehicle) (*model.Program, error) {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"id": programID},
		bson.M{
			"$push": bson.M{"vehicles": vehicle},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("program repository: add vehicle: %w", err)
	}
	return r.GetByID(ctx, programID)
}

// UpdateVehicle replaces the vehicle with the given id inside program
// programID. Returns ErrNotFound if either the program or the vehicle
// does not exist.
func (r *ProgramRepository) UpdateVehicle(ctx context.Context, programID, vehicleID string, vehicle model.Vehicle) (*model.Program, error) {
	vehicle.ID = vehicleID
	res, err := r.col.UpdateOne(ctx,
		bson.M{"id": programID, "vehicles.id": vehicleID},
		bson.M{
			"$set": bson.M{"vehicles.$": vehicle, "updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("program repository: update vehicle: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, programID)
}

// DeleteVehicle removes the vehicle with the given id from program
// programID.
func (r *ProgramRepository) DeleteVehicle(ctx context.Context, programID, vehicleID string) (*model.Program, error) {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"id": programID},
		bson.M{
			"$pull": bson.M{"vehicles": bson.M{"id": vehicleID}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("program repository: delete vehicle: %w", err)
	}
	return r.GetByID(ctx, programID)
}
