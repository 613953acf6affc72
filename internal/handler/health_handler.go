package handler

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shiva/shuttlesched/pkg/db"
)

// HealthHandler answers liveness/readiness checks, pinging MongoDB to
// distinguish "process is up" from "process can actually serve".
type HealthHandler struct {
	client *mongo.Client
}

// NewHealthHandler wires a health handler to the Mongo client used for
// readiness pings.
func NewHealthHandler(client *mongo.Client) *HealthHandler {
	return &HealthHandler{client: client}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := db.HealthCheck(ctx, h.client); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "unhealthy",
			"message": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Server is running",
		"status":  "OK",
	})
}
