package universe

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/oldlogancap/logan-screener/internal/contracts"
	"github.com/oldlogancap/logan-screener/pkg/logger"
	"github.com/oldlogancap/logan-screener/pkg/retry"
)

// Exclusion reasons recorded in the build report.
const (
	ReasonInvalidTicker  = "invalid ticker symbol"
	ReasonDuplicate      = "duplicate symbol"
	ReasonSectorMismatch = "sector mismatch"
	ReasonSectorUnknown  = "sector unknown"
)

// Report describes one universe build: what survived and why the rest
// did not.
type Report struct {
	Index    string            `json:"index"`
	Fetched  int               `json:"fetched"`
	Included []string          `json:"included"`
	Excluded map[string]string `json:"excluded,omitempty"` // raw symbol -> reason
}

// Builder assembles candidate ticker universes from index constituent
// lists.
type Builder struct {
	source contracts.ConstituentSource
	market contracts.MarketDataProvider
	retry  retry.Policy
	logger *logger.Logger
}

// NewBuilder creates a universe builder. The market provider is optional;
// without it, size-capped builds keep the source order instead of ranking
// by market cap.
func NewBuilder(source contracts.ConstituentSource, market contracts.MarketDataProvider, retryPolicy retry.Policy, log *logger.Logger) *Builder {
	return &Builder{source: source, market: market, retry: retryPolicy, logger: log}
}

// Indices lists the index names the source understands.
func (b *Builder) Indices() []string {
	return b.source.Indices()
}

// Build fetches the index constituents and returns a cleaned universe of
// at most limit tickers (limit <= 0 means unlimited). Symbols are
// normalized, invalid and duplicate entries are excluded with reasons,
// and an over-limit universe is cut to the largest companies by market
// cap.
func (b *Builder) Build(ctx context.Context, index string, limit int) (*Report, error) {
	raw, err := retry.Do(ctx, b.retry, func(ctx context.Context) ([]string, error) {
		return b.source.Constituents(ctx, index)
	})
	if err != nil {
		return nil, fmt.Errorf("fetching constituents for %s: %w", index, err)
	}

	report := &Report{
		Index:    index,
		Fetched:  len(raw),
		Excluded: make(map[string]string),
	}

	seen := make(map[string]bool)
	for _, symbol := range raw {
		ticker := contracts.NormalizeTicker(symbol)
		if !contracts.ValidTicker(ticker) {
			report.Excluded[symbol] = ReasonInvalidTicker
			continue
		}
		if seen[ticker] {
			report.Excluded[symbol] = ReasonDuplicate
			continue
		}
		seen[ticker] = true
		report.Included = append(report.Included, ticker)
	}

	if limit > 0 && len(report.Included) > limit {
		report.Included = b.truncateByMarketCap(ctx, report.Included, limit)
	}

	b.logger.WithFields(map[string]interface{}{
		"index":    index,
		"fetched":  report.Fetched,
		"included": len(report.Included),
		"excluded": len(report.Excluded),
	}).Info("universe built")

	return report, nil
}

// FilterSector keeps only tickers whose profile sector matches (case
// insensitive). Tickers whose sector cannot be determined are excluded
// with their own reason. Without a market provider the input passes
// through unchanged.
func (b *Builder) FilterSector(ctx context.Context, tickers []string, sector string) ([]string, map[string]string) {
	excluded := make(map[string]string)
	if b.market == nil || sector == "" {
		return tickers, excluded
	}

	var kept []string
	for _, ticker := range tickers {
		profile, err := retry.Do(ctx, b.retry, func(ctx context.Context) (*contracts.CompanyProfile, error) {
			return b.market.Profile(ctx, ticker)
		})
		if err != nil || profile == nil || profile.Sector == "" {
			if err != nil {
				b.logger.WithError(err).WithField("ticker", ticker).
					Warn("sector filter: profile lookup failed")
			}
			excluded[ticker] = ReasonSectorUnknown
			continue
		}
		if !strings.EqualFold(profile.Sector, sector) {
			excluded[ticker] = ReasonSectorMismatch
			continue
		}
		kept = append(kept, ticker)
	}
	return kept, excluded
}

// truncateByMarketCap keeps the limit largest tickers. Market caps are
// fetched best-effort; a ticker whose profile fails ranks last but is not
// dropped outright.
func (b *Builder) truncateByMarketCap(ctx context.Context, tickers []string, limit int) []string {
	if b.market == nil {
		return tickers[:limit]
	}

	caps := make(map[string]float64, len(tickers))
	for _, ticker := range tickers {
		profile, err := retry.Do(ctx, b.retry, func(ctx context.Context) (*contracts.CompanyProfile, error) {
			return b.market.Profile(ctx, ticker)
		})
		if err != nil || profile == nil {
			if err != nil {
				b.logger.WithError(err).WithField("ticker", ticker).
					Warn("universe build: market cap lookup failed")
			}
			continue
		}
		caps[ticker] = profile.MarketCap
	}

	ranked := make([]string, len(tickers))
	copy(ranked, tickers)
	sort.SliceStable(ranked, func(i, j int) bool {
		return caps[ranked[i]] > caps[ranked[j]]
	})
	ranked = ranked[:limit]

	// Keep the original constituent order within the surviving set.
	kept := make(map[string]bool, len(ranked))
	for _, t := range ranked {
		kept[t] = true
	}
	out := make([]string, 0, limit)
	for _, t := range tickers {
		if kept[t] {
			out = append(out, t)
		}
	}
	return out
}
