package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/shiva/shuttlesched/internal/builder"
	"github.com/shiva/shuttlesched/internal/direction"
	"github.com/shiva/shuttlesched/internal/engine"
	"github.com/shiva/shuttlesched/internal/model"
	"github.com/shiva/shuttlesched/internal/repository"
)

// ScheduleHandler runs the synchronous C5→(C6|C7)→response path.
type ScheduleHandler struct {
	engine *engine.Engine
}

// NewScheduleHandler wires a schedule handler to the pipeline.
func NewScheduleHandler(eng *engine.Engine) *ScheduleHandler {
	return &ScheduleHandler{engine: eng}
}

// Schedule handles POST /schedule.
func (h *ScheduleHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req model.ScheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.engine.Run(r.Context(), req)
	if err != nil {
		writeScheduleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeScheduleError maps the pipeline's error taxonomy to an HTTP
// status for the synchronous schedule handler.
func writeScheduleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, builder.ErrBadInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "bad_input",
			"message": err.Error(),
		})
	case errors.Is(err, direction.ErrNoRoute):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "no_route",
			"message": err.Error(),
		})
	case errors.Is(err, direction.ErrProviderError):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "provider_error",
			"message": err.Error(),
		})
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error":   "program_not_found",
			"message": err.Error(),
		})
	case errors.Is(err, engine.ErrProgramRequired):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "program_name_required",
			"message": err.Error(),
		})
	default:
		log.Printf("[handler] schedule error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
	}
}
