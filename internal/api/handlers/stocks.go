package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/oldlogancap/logan-screener/internal/contracts"
)

// StockDetail returns everything known locally about one ticker: resolved
// metadata, the most recent cached screening row, and stored filings.
func (h *Handler) StockDetail(w http.ResponseWriter, r *http.Request) {
	ticker := contracts.NormalizeTicker(mux.Vars(r)["ticker"])
	if !contracts.ValidTicker(ticker) {
		h.respondError(w, http.StatusBadRequest, "invalid ticker")
		return
	}
	ctx := r.Context()

	meta := h.resolver.ResolveCompany(ctx, ticker)

	payload := map[string]interface{}{
		"ticker":  ticker,
		"company": meta,
	}

	if h.results != nil {
		cutoff := time.Now().Add(-h.cfg.Screen.CacheMaxAge)
		if row, err := h.results.GetFresh(ctx, ticker, cutoff); err == nil && row != nil {
			payload["latest_result"] = row
		}
	}
	if h.filings != nil {
		if filings, err := h.filings.ListRecent(ctx, ticker, 4); err == nil && len(filings) > 0 {
			payload["filings"] = filings
		}
	}

	h.respondJSON(w, http.StatusOK, payload)
}

// IngestFiling fetches and stores the latest quarterly filing for a
// ticker.
func (h *Handler) IngestFiling(w http.ResponseWriter, r *http.Request) {
	ticker := contracts.NormalizeTicker(mux.Vars(r)["ticker"])
	if !contracts.ValidTicker(ticker) {
		h.respondError(w, http.StatusBadRequest, "invalid ticker")
		return
	}

	filing, inserted, err := h.resolver.IngestLatestFiling(r.Context(), ticker)
	if err != nil {
		h.respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	status := http.StatusOK
	if inserted {
		status = http.StatusCreated
	}
	h.respondJSON(w, status, map[string]interface{}{
		"inserted": inserted,
		"filing":   filing,
	})
}
