package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/oldlogancap/logan-screener/internal/contracts"
)

type screenRequest struct {
	Tickers []string `json:"tickers"`
	Index   string   `json:"index,omitempty"`
	Limit   int      `json:"limit,omitempty"`
}

// Screen runs the screening pipeline over an explicit ticker list or a
// named index universe.
func (h *Handler) Screen(w http.ResponseWriter, r *http.Request) {
	var req screenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tickers := req.Tickers
	if len(tickers) == 0 && req.Index != "" {
		report, err := h.builder.Build(r.Context(), req.Index, 0)
		if err != nil {
			h.respondError(w, http.StatusBadGateway, "building universe failed: "+err.Error())
			return
		}
		tickers = report.Included
	}
	if len(tickers) == 0 {
		h.respondError(w, http.StatusBadRequest, "tickers or index required")
		return
	}

	report, err := h.engine.ScreenN(r.Context(), tickers, req.Limit)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "screen failed: "+err.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, report)
}

// Results returns the freshest cached screening row per ticker.
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	if h.results == nil {
		h.respondError(w, http.StatusServiceUnavailable, "no database configured")
		return
	}

	cutoff := time.Now().UTC().Add(-h.cfg.Screen.CacheMaxAge)
	rows, err := h.results.ListFresh(r.Context(), cutoff)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "loading results failed: "+err.Error())
		return
	}
	if rows == nil {
		rows = []*contracts.ScreeningResult{}
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(rows),
		"results": rows,
	})
}
