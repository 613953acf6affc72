// Package engine binds C5 (the graph builder) to C6 (greedy) or C7 (CP),
// the single pipeline both the synchronous schedule handler and the async
// task executor invoke (spec.md §2: "Synchronous mode invokes
// C5→(C6 or C7)→response. Asynchronous mode ... runs the same
// C5→(C6|C7) pipeline").
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/shiva/shuttlesched/internal/builder"
	"github.com/shiva/shuttlesched/internal/model"
	"github.com/shiva/shuttlesched/internal/repository"
	"github.com/shiva/shuttlesched/internal/scheduler"
)

// ErrProgramRequired is returned when the cp optimizer is selected but the
// request names no program to load a fleet from.
var ErrProgramRequired = errors.New("engine: program_name is required when optimization.optimizer is \"cp\"")

// Engine runs the build-then-schedule pipeline for a single request.
type Engine struct {
	builder  *builder.Builder
	greedy   *scheduler.Greedy
	cp       *scheduler.CP
	programs *repository.ProgramRepository
	defaults builder.Defaults
}

// New builds a pipeline over the given stages. defaults are the
// system-wide before/after-pickup and dropoff-unloading windows (§4.2),
// overridable per request.
func New(b *builder.Builder, greedy *scheduler.Greedy, cp *scheduler.CP, programs *repository.ProgramRepository, defaults builder.Defaults) *Engine {
	return &Engine{builder: b, greedy: greedy, cp: cp, programs: programs, defaults: defaults}
}

// Run executes the full pipeline for req and returns the response
// envelope. A NoSchedule outcome from the CP scheduler is reported inside
// the envelope (status "error"), not as a Go error — callers distinguish
// "no feasible plan" from a genuine failure by inspecting the returned
// error, which is nil in that case (§7).
func (e *Engine) Run(ctx context.Context, req model.ScheduleRequest) (model.ScheduleResponse, error) {
	defaults := builder.ResolveDefaults(req, e.defaults)

	buckets, err := e.builder.Build(ctx, req, defaults)
	if err != nil {
		return model.ScheduleResponse{}, err
	}

	optimizer, opt := resolveOptimization(req)

	if optimizer == "cp" {
		return e.runCP(ctx, buckets, req.ProgramName, opt)
	}
	return e.runGreedy(ctx, buckets)
}

func resolveOptimization(req model.ScheduleRequest) (optimizer string, opt model.Optimization) {
	optimizer = "greedy"
	if req.Optimization == nil {
		return optimizer, opt
	}
	opt = *req.Optimization
	if opt.Optimizer != "" {
		optimizer = opt.Optimizer
	}
	return optimizer, opt
}

func (e *Engine) runGreedy(ctx context.Context, buckets [3][]*model.Trip) (model.ScheduleResponse, error) {
	shuttles, err := e.greedy.Schedule(ctx, buckets)
	if err != nil {
		return model.ScheduleResponse{}, fmt.Errorf("engine: greedy: %w", err)
	}
	return model.NewSuccessResponse(shuttles), nil
}

func (e *Engine) runCP(ctx context.Context, buckets [3][]*model.Trip, programName string, opt model.Optimization) (model.ScheduleResponse, error) {
	if programName == "" {
		return model.ScheduleResponse{}, ErrProgramRequired
	}

	program, err := e.programs.GetByName(ctx, programName)
	if err != nil {
		return model.ScheduleResponse{}, fmt.Errorf("engine: loading fleet %q: %w", programName, err)
	}

	var trips []*model.Trip
	for _, bucket := range buckets {
		trips = append(trips, bucket...)
	}

	shuttles, err := e.cp.Schedule(ctx, trips, scheduler.CPOptions{
		Vehicles:                      program.Vehicles,
		ChainBookingsForSamePassenger: opt.ChainBookingsForSamePassenger,
		MinimizeVehicles:              opt.MinimizeVehicles,
		MinimizeTotalDuration:         opt.MinimizeTotalDuration,
	})
	if err != nil {
		if errors.Is(err, scheduler.ErrNoSchedule) {
			return model.NewErrorResponse(err.Error()), nil
		}
		return model.ScheduleResponse{}, fmt.Errorf("engine: cp: %w", err)
	}

	return model.NewSuccessResponse(shuttles), nil
}
