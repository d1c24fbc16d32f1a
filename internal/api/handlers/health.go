package handlers

import (
	"net/http"
	"time"
)

// Health reports process and database health plus any missing external
// configuration.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	payload := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"env":       h.cfg.Env,
	}

	if h.db != nil {
		status, err := h.db.HealthCheck(r.Context())
		payload["database"] = status
		if err != nil {
			payload["status"] = "degraded"
		}
	} else {
		payload["database"] = nil
		payload["status"] = "degraded"
	}

	if missing := h.cfg.MissingKeys(); len(missing) > 0 {
		payload["missing_keys"] = missing
	}

	code := http.StatusOK
	if payload["status"] != "ok" {
		code = http.StatusServiceUnavailable
	}
	h.respondJSON(w, code, payload)
}
