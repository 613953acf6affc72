package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/shiva/shuttlesched/internal/direction"
)

// DirectionHandler exposes the C2 cache directly, mirroring the original
// system's standalone /direction endpoint used by operators to warm the
// cache or debug a specific leg.
type DirectionHandler struct {
	cache *direction.Cache
}

// NewDirectionHandler wires a direction handler to the cache.
func NewDirectionHandler(cache *direction.Cache) *DirectionHandler {
	return &DirectionHandler{cache: cache}
}

// Fetch handles GET /direction?from=&to=, returning the cached or
// freshly fetched (meters, seconds) for the pair.
func (h *DirectionHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "missing_parameter",
			"message": "both from and to query parameters are required",
		})
		return
	}

	meters, seconds, err := h.cache.Fetch(r.Context(), from, to, nil)
	if err != nil {
		switch {
		case errors.Is(err, direction.ErrNoRoute):
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error":   "no_route",
				"message": "no route exists between the given addresses",
			})
		case errors.Is(err, direction.ErrProviderError):
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error":   "provider_error",
				"message": "the upstream routing provider failed",
			})
		default:
			log.Printf("[handler] direction fetch error: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"distance_in_meter":   meters,
		"duration_in_seconds": seconds,
	})
}
