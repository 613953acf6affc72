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

// ProgramHandler exposes C4's fleet CRUD surface, including the vehicle
// sub-resource operations spec.md §6 names.
type ProgramHandler struct {
	programs *repository.ProgramRepository
}

// NewProgramHandler wires a program handler to the program store.
func NewProgramHandler(programs *repository.ProgramRepository) *ProgramHandler {
	return &ProgramHandler{programs: programs}
}

type createProgramRequest struct {
	Name     string          `json:"name"`
	Vehicles []model.Vehicle `json:"vehicles"`
}

// Create handles POST /program.
func (h *ProgramHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProgramRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	for i := range req.Vehicles {
		if req.Vehicles[i].ID == "" {
			req.Vehicles[i].ID = idgen.New()
		}
	}

	program, err := h.programs.Create(r.Context(), model.Program{
		ID:       idgen.New(),
		Name:     req.Name,
		Vehicles: req.Vehicles,
	})
	if err != nil {
		writeProgramError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, program)
}

// List handles GET /program.
func (h *ProgramHandler) List(w http.ResponseWriter, r *http.Request) {
	programs, err := h.programs.List(r.Context())
	if err != nil {
		log.Printf("[handler] program list error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	}
	writeJSON(w, http.StatusOK, programs)
}

// Get handles GET /program/{id}.
func (h *ProgramHandler) Get(w http.ResponseWriter, r *http.Request) {
	program, err := h.programs.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeProgramError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, program)
}

type updateProgramRequest struct {
	Name     *string         `json:"name,omitempty"`
	Vehicles []model.Vehicle `json:"vehicles,omitempty"`
}

// Update handles PUT /program/{id}.
func (h *ProgramHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateProgramRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	program, err := h.programs.Update(r.Context(), mux.Vars(r)["id"], req.Name, req.Vehicles)
	if err != nil {
		writeProgramError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, program)
}

// Delete handles DELETE /program/{id}.
func (h *ProgramHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.programs.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeProgramError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddVehicle handles POST /program/{id}/vehicles.
func (h *ProgramHandler) AddVehicle(w http.ResponseWriter, r *http.Request) {
	var vehicle model.Vehicle
	if !decodeJSON(w, r, &vehicle) {
		return
	}
	if vehicle.ID == "" {
		vehicle.ID = idgen.New()
	}

	program, err := h.programs.AddVehicle(r.Context(), mux.Vars(r)["id"], vehicle)
	if err != nil {
		writeProgramError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, program)
}

// UpdateVehicle handles PUT /program/{id}/vehicles/{vehicle_id}.
func (h *ProgramHandler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	var vehicle model.Vehicle
	if !decodeJSON(w, r, &vehicle) {
		return
	}

	vars := mux.Vars(r)
	program, err := h.programs.UpdateVehicle(r.Context(), vars["id"], vars["vehicle_id"], vehicle)
	if err != nil {
		writeProgramError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, program)
}

// DeleteVehicle handles DELETE /program/{id}/vehicles/{vehicle_id}.
func (h *ProgramHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	program, err := h.programs.DeleteVehicle(r.Context(), vars["id"], vars["vehicle_id"])
	if err != nil {
		writeProgramError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, program)
}

func writeProgramError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error":   "program_not_found",
			"message": "no program with that id",
		})
	case errors.Is(err, repository.ErrDuplicateName):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "duplicate_name",
			"message": "a program with that name already exists",
		})
	default:
		log.Printf("[handler] program error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
	}
}
