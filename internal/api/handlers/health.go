package handlers

import (
	"net/http"
	"time"
)

var startedAt = time.Now()

// Health provides a minimal liveness check endpoint.
func Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	res := map[string]any{
		"status":     "ok",
		"uptime_sec": int(time.Since(startedAt).Seconds()),
	}
	writeJSON(w, r, http.StatusOK, res)
}
