package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/shiva/shuttlesched/internal/idgen"
	"github.com/shiva/shuttlesched/internal/model"
	"github.com/shiva/shuttlesched/internal/repository"
)

// TaskHandler exposes C8's async submission/lookup surface: POST /task
// enqueues a PENDING record for C9 to pick up; GET /task/{id} reports its
// current status.
type TaskHandler struct {
	tasks *repository.TaskRepository
}

// NewTaskHandler wires a task handler to the task store.
func NewTaskHandler(tasks *repository.TaskRepository) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// Create handles POST /task: validates the request decodes, inserts a
// PENDING record, and returns its id immediately without running the
// pipeline.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ScheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id := idgen.New()
	task, err := h.tasks.Create(r.Context(), id, req)
	if err != nil {
		log.Printf("[handler] task create error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"id":     task.ID,
		"status": string(task.Status),
	})
}

// Get handles GET /task/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	task, err := h.tasks.Get(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error":   "task_not_found",
			"message": "no task with that id",
		})
		return
	}
	if err != nil {
		log.Printf("[handler] task get error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	}

	writeJSON(w, http.StatusOK, task)
}
