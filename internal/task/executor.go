// Package task implements C9, the background executor that drains the C8
// task queue: sleep, claim a batch, run the scheduling pipeline over each
// claimed task concurrently, write back a terminal status.
package task

import (
	"context"
	"log"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/shiva/shuttlesched/internal/engine"
	"github.com/shiva/shuttlesched/internal/model"
	"github.com/shiva/shuttlesched/internal/repository"
)

var (
	_ Store    = (*repository.TaskRepository)(nil)
	_ Pipeline = (*engine.Engine)(nil)
)

// Store is the C8 surface the executor drives. *repository.TaskRepository
// satisfies it; tests substitute a fake.
type Store interface {
	ClaimBatch(ctx context.Context, limit int) ([]string, error)
	Get(ctx context.Context, id string) (*model.Task, error)
	Finalize(ctx context.Context, id string, status model.TaskStatus, response *model.ScheduleResponse, errorMessage string) error
}

// Pipeline is the C5→(C6|C7) scheduling pipeline the executor runs per
// claimed task. *engine.Engine satisfies it; tests substitute a fake so
// executor behavior (claim/execute/finalize wiring, concurrency,
// shutdown draining) can be verified without a live MongoDB or routing
// provider.
type Pipeline interface {
	Run(ctx context.Context, req model.ScheduleRequest) (model.ScheduleResponse, error)
}

// Executor runs the C9 poll loop: one instance per process.
type Executor struct {
	store     Store
	pipeline  Pipeline
	interval  time.Duration
	batchSize int

	stop chan struct{}
	done chan struct{}
}

// New builds an executor. interval and batchSize are
// PROCESSOR_INTERVAL/PROCESSOR_BATCH_SIZE (§4.5 defaults: 5000ms / 10).
func New(store Store, pipeline Pipeline, interval time.Duration, batchSize int) *Executor {
	return &Executor{
		store:     store,
		pipeline:  pipeline,
		interval:  interval,
		batchSize: batchSize,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Run blocks, executing the C9 loop until Stop is called or ctx is
// cancelled. It is meant to be started in its own goroutine.
func (e *Executor) Run(ctx context.Context) {
	defer close(e.done)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.stop:
			return
		case <-ticker.C:
			e.tick(ctx)
		}
	}
}

// Stop signals the loop to exit before its next sleep tick and blocks
// until any in-flight batch finishes (§4.5's "on shutdown ... tasks
// currently in flight are allowed to complete").
func (e *Executor) Stop() {
	close(e.stop)
	<-e.done
}

// tick runs one claim_batch → concurrent-execute → finalize cycle.
// Errors in the loop body are logged, not propagated — a single bad batch
// must not kill the process (§4.5 point 4).
func (e *Executor) tick(ctx context.Context) {
	ids, err := e.store.ClaimBatch(ctx, e.batchSize)
	if err != nil {
		log.Printf("[task] claim_batch failed: %v", err)
		return
	}
	if len(ids) == 0 {
		return
	}
	log.Printf("[task] claimed %d task(s)", len(ids))

	p := pool.New().WithMaxGoroutines(len(ids))
	for _, id := range ids {
		id := id
		p.Go(func() {
			e.execute(ctx, id)
		})
	}
	p.Wait()
}

// execute runs the scheduling pipeline for one claimed task and writes
// back its terminal status. A panic inside the pipeline (e.g. a solver
// bug) is treated the same as a returned error: the task is marked
// FAILED rather than crashing the executor goroutine.
func (e *Executor) execute(ctx context.Context, id string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[task] %s: panic in pipeline: %v", id, r)
			if err := e.store.Finalize(ctx, id, model.TaskFailed, nil, "internal error"); err != nil {
				log.Printf("[task] %s: finalize after panic failed: %v", id, err)
			}
		}
	}()

	task, err := e.store.Get(ctx, id)
	if err != nil {
		log.Printf("[task] %s: get failed: %v", id, err)
		return
	}

	resp, err := e.pipeline.Run(ctx, task.Request)
	if err != nil {
		if finalizeErr := e.store.Finalize(ctx, id, model.TaskFailed, nil, err.Error()); finalizeErr != nil {
			log.Printf("[task] %s: finalize FAILED failed: %v", id, finalizeErr)
		}
		return
	}

	if err := e.store.Finalize(ctx, id, model.TaskCompleted, &resp, ""); err != nil {
		log.Printf("[task] %s: finalize COMPLETED failed: %v", id, err)
	}
}
