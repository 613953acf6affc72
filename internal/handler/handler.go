// Package handler implements C10: the HTTP request surface binding
// incoming requests to the engine pipeline, the direction cache, the task
// queue, and the program store.
package handler

import (
	"encoding/json"
	"net/http"
	"time"
)

// healthCheckTimeout bounds how long a readiness probe waits on Mongo
// before reporting unhealthy.
const healthCheckTimeout = 3 * time.Second

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeJSON decodes the request body into v, returning false (and having
// already written a 400 response) on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "invalid_json",
			"message": err.Error(),
		})
		return false
	}
	return true
}
