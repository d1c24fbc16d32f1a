package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// Universe builds and returns the candidate ticker list for an index.
func (h *Handler) Universe(w http.ResponseWriter, r *http.Request) {
	index := mux.Vars(r)["index"]

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	report, err := h.builder.Build(r.Context(), index, limit)
	if err != nil {
		h.respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, report)
}

// Indices lists the index names the universe builder understands.
func (h *Handler) Indices(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string][]string{"indices": h.builder.Indices()})
}
