package task

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shiva/shuttlesched/internal/model"
)

type fakeStore struct {
	mu      sync.Mutex
	tasks   map[string]*model.Task
	pending []string
}

func newFakeStore(tasks ...*model.Task) *fakeStore {
	s := &fakeStore{tasks: map[string]*model.Task{}}
	for _, t := range tasks {
		s.tasks[t.ID] = t
		s.pending = append(s.pending, t.ID)
	}
	return s
}

func (s *fakeStore) ClaimBatch(_ context.Context, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := limit
	if n > len(s.pending) {
		n = len(s.pending)
	}
	claimed := append([]string{}, s.pending[:n]...)
	s.pending = s.pending[n:]
	return claimed, nil
}

func (s *fakeStore) Get(_ context.Context, id string) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return t, nil
}

func (s *fakeStore) Finalize(_ context.Context, id string, status model.TaskStatus, response *model.ScheduleResponse, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return errors.New("not found")
	}
	t.Status = status
	t.Response = response
	t.ErrorMessage = errMsg
	return nil
}

func (s *fakeStore) finalCount(status model.TaskStatus) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if t.Status == status {
			n++
		}
	}
	return n
}

type fakePipeline struct {
	calls int32
	fail  bool
}

func (p *fakePipeline) Run(context.Context, model.ScheduleRequest) (model.ScheduleResponse, error) {
	atomic.AddInt32(&p.calls, 1)
	if p.fail {
		return model.ScheduleResponse{}, errors.New("pipeline failed")
	}
	return model.NewSuccessResponse(nil), nil
}

func TestExecutorCompletesTasksOnSuccess(t *testing.T) {
	store := newFakeStore(&model.Task{ID: "t1", Status: model.TaskPending}, &model.Task{ID: "t2", Status: model.TaskPending})
	pipeline := &fakePipeline{}

	e := New(store, pipeline, 10*time.Millisecond, 10)
	ctx, cancel := context.WithCancel(context.Background())
	go e.Run(ctx)

	waitFor(t, func() bool { return store.finalCount(model.TaskCompleted) == 2 })

	cancel()
	e.Stop()

	if atomic.LoadInt32(&pipeline.calls) != 2 {
		t.Errorf("expected pipeline invoked exactly twice, got %d", pipeline.calls)
	}
}

func TestExecutorMarksFailedOnPipelineError(t *testing.T) {
	store := newFakeStore(&model.Task{ID: "t1", Status: model.TaskPending})
	pipeline := &fakePipeline{fail: true}

	e := New(store, pipeline, 10*time.Millisecond, 10)
	ctx, cancel := context.WithCancel(context.Background())
	go e.Run(ctx)

	waitFor(t, func() bool { return store.finalCount(model.TaskFailed) == 1 })

	cancel()
	e.Stop()
}

func TestExecutorStopDrainsInFlightBatch(t *testing.T) {
	store := newFakeStore(&model.Task{ID: "t1", Status: model.TaskPending})
	pipeline := &fakePipeline{}

	e := New(store, pipeline, 5*time.Millisecond, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go e.Run(ctx)
	waitFor(t, func() bool { return store.finalCount(model.TaskCompleted) == 1 })

	e.Stop() // must return only after the in-flight tick has fully finished
	if store.finalCount(model.TaskCompleted) != 1 {
		t.Error("expected the claimed task to have completed before Stop returned")
	}
}

func TestExecutorSkipsEmptyBatchesWithoutError(t *testing.T) {
	store := newFakeStore()
	pipeline := &fakePipeline{}

	e := New(store, pipeline, 5*time.Millisecond, 10)
	ctx, cancel := context.WithCancel(context.Background())
	go e.Run(ctx)

	time.Sleep(30 * time.Millisecond)
	cancel()
	e.Stop()

	if atomic.LoadInt32(&pipeline.calls) != 0 {
		t.Error("expected no pipeline calls when the queue is empty")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
