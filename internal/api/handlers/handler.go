package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/oldlogancap/logan-screener/internal/contracts"
	"github.com/oldlogancap/logan-screener/internal/resolver"
	"github.com/oldlogancap/logan-screener/internal/screener"
	"github.com/oldlogancap/logan-screener/internal/universe"
	"github.com/oldlogancap/logan-screener/pkg/config"
	"github.com/oldlogancap/logan-screener/pkg/database"
	"github.com/oldlogancap/logan-screener/pkg/logger"
)

// Handler carries the dependencies shared by all HTTP endpoints.
type Handler struct {
	cfg      *config.Config
	db       *database.DB
	engine   *screener.Engine
	builder  *universe.Builder
	resolver *resolver.Resolver
	results  contracts.ResultRepository
	filings  contracts.FilingRepository
	chat     contracts.ChatProvider
	logger   *logger.Logger
}

// New creates the handler set.
func New(
	cfg *config.Config,
	db *database.DB,
	engine *screener.Engine,
	builder *universe.Builder,
	res *resolver.Resolver,
	results contracts.ResultRepository,
	filings contracts.FilingRepository,
	chat contracts.ChatProvider,
	log *logger.Logger,
) *Handler {
	return &Handler{
		cfg:      cfg,
		db:       db,
		engine:   engine,
		builder:  builder,
		resolver: res,
		results:  results,
		filings:  filings,
		chat:     chat,
		logger:   log,
	}
}

// respondJSON writes a JSON response with the given status.
func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.WithError(err).Error("encoding response failed")
	}
}

// respondError writes a JSON error envelope.
func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
