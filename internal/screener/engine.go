package screener

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/oldlogancap/logan-screener/internal/contracts"
	"github.com/oldlogancap/logan-screener/internal/metrics"
	"github.com/oldlogancap/logan-screener/internal/resolver"
	"github.com/oldlogancap/logan-screener/internal/story"
	"github.com/oldlogancap/logan-screener/pkg/config"
	"github.com/oldlogancap/logan-screener/pkg/logger"
)

// Report is the outcome of one screening run.
type Report struct {
	Profile     string                 `json:"profile"`
	Screened    int                    `json:"screened"`
	CacheHits   int                    `json:"cache_hits"`
	Passed      []contracts.ResultRow  `json:"passed"`
	Failures    map[string]string      `json:"failures,omitempty"` // ticker -> failing filter
	Skipped     map[string]string      `json:"skipped,omitempty"`  // raw symbol -> reason
	Duration    time.Duration          `json:"duration"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// Engine runs the screen: resolve, compute or reuse cached metrics, gate,
// rank. Per-ticker failures never abort the run; a ticker that cannot be
// evaluated simply fails its first missing criterion.
type Engine struct {
	metrics  *metrics.Provider
	story    *story.Analyzer
	resolver *resolver.Resolver
	results  contracts.ResultRepository
	gate     *Gate
	screen   config.ScreenConfig
	limiter  *rate.Limiter
	logger   *logger.Logger

	now func() time.Time
}

// NewEngine creates a screening engine. The rate limiter paces upstream
// computation; cache hits are not throttled.
func NewEngine(
	metricProvider *metrics.Provider,
	storyAnalyzer *story.Analyzer,
	res *resolver.Resolver,
	results contracts.ResultRepository,
	screen config.ScreenConfig,
	log *logger.Logger,
) *Engine {
	limit := rate.Inf
	if screen.RateLimitDelay > 0 {
		limit = rate.Every(screen.RateLimitDelay)
	}
	return &Engine{
		metrics:  metricProvider,
		story:    storyAnalyzer,
		resolver: res,
		results:  results,
		gate:     NewGate(screen),
		screen:   screen,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   log,
		now:      time.Now,
	}
}

// Screen evaluates the given symbols and returns the ranked passing set.
// limit caps the output rows; limit <= 0 uses the configured default.
func (e *Engine) Screen(ctx context.Context, symbols []string) (*Report, error) {
	return e.ScreenN(ctx, symbols, 0)
}

// ScreenN is Screen with an explicit output cap.
func (e *Engine) ScreenN(ctx context.Context, symbols []string, limit int) (*Report, error) {
	start := e.now()
	if limit <= 0 {
		limit = e.screen.DefaultScreenLimit
	}

	report := &Report{
		Profile:  e.screen.Profile,
		Failures: make(map[string]string),
		Skipped:  make(map[string]string),
	}

	tickers := e.cleanSymbols(symbols, report)
	report.Screened = len(tickers)

	var passing []*contracts.CriterionOutcome
	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		outcome, cached, err := e.evaluate(ctx, ticker)
		if err != nil {
			return nil, err
		}
		if cached {
			report.CacheHits++
		}

		if filter := e.gate.FailingFilter(outcome); filter != "" {
			report.Failures[ticker] = filter
			e.logger.WithField("ticker", ticker).WithField("filter", filter).
				Debug("ticker failed screen")
			continue
		}
		passing = append(passing, outcome)
	}

	report.Passed = Rank(passing, e.screen.RankBy, limit)
	report.Duration = e.now().Sub(start)
	report.GeneratedAt = e.now()

	e.logger.WithFields(map[string]interface{}{
		"profile":    report.Profile,
		"screened":   report.Screened,
		"passed":     len(report.Passed),
		"cache_hits": report.CacheHits,
	}).Info("screen complete")

	return report, nil
}

// cleanSymbols normalizes, validates and dedupes the input, recording
// skips in the report.
func (e *Engine) cleanSymbols(symbols []string, report *Report) []string {
	seen := make(map[string]bool)
	var tickers []string
	for _, symbol := range symbols {
		ticker := contracts.NormalizeTicker(symbol)
		if !contracts.ValidTicker(ticker) {
			report.Skipped[symbol] = "invalid ticker symbol"
			continue
		}
		if seen[ticker] {
			report.Skipped[symbol] = "duplicate symbol"
			continue
		}
		seen[ticker] = true
		tickers = append(tickers, ticker)
	}
	return tickers
}

// evaluate returns the outcome for one ticker, from cache when a fresh row
// exists, otherwise computed and persisted. Only context cancellation is
// returned as an error. A panic below the provider boundary is contained
// here: the ticker comes back with an empty outcome and fails its first
// criterion instead of aborting the batch.
func (e *Engine) evaluate(ctx context.Context, ticker string) (outcome *contracts.CriterionOutcome, cached bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.WithField("ticker", ticker).WithField("panic", rec).
				Error("recovered panic while evaluating ticker")
			outcome = &contracts.CriterionOutcome{Ticker: ticker}
			cached = false
			err = nil
		}
	}()

	now := e.now()
	if e.results != nil {
		cutoff := now.Add(-e.screen.CacheMaxAge)
		row, err := e.results.GetFresh(ctx, ticker, cutoff)
		if err != nil {
			e.logger.WithError(err).WithField("ticker", ticker).
				Warn("cache lookup failed, computing fresh")
		} else if row != nil {
			return outcomeFromResult(row), true, nil
		}
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, false, err
	}

	outcome = e.compute(ctx, ticker)

	if e.results != nil {
		if err := e.results.Save(ctx, resultFromOutcome(outcome, now)); err != nil {
			e.logger.WithError(err).WithField("ticker", ticker).
				Warn("persisting result failed")
		}
	}
	return outcome, false, nil
}

// compute runs every metric the profile needs against live data.
func (e *Engine) compute(ctx context.Context, ticker string) *contracts.CriterionOutcome {
	o := &contracts.CriterionOutcome{Ticker: ticker}
	o.Metadata = e.resolver.ResolveCompany(ctx, ticker)

	o.EarningsGrowth = e.metrics.EarningsGrowth(ctx, ticker)
	o.RelativeStrength = e.metrics.RelativeStrength(ctx, ticker)
	o.CurrentPrice, o.SMA50, o.AboveSMA = e.metrics.SMATrend(ctx, ticker)

	if e.screen.Profile == config.ProfileClassic {
		o.Story = contracts.StoryVerdict{Passes: true}
		return o
	}

	o.Trend = e.metrics.TrendTemplate(ctx, ticker)
	o.Volatility20D = e.metrics.Volatility20D(ctx, ticker)
	_, o.OwnershipPercent = e.metrics.InstitutionalSponsorship(ctx, ticker)
	o.OperatingLeverage = e.metrics.OperatingLeverage(ctx, ticker)
	o.Story = e.story.Analyze(ctx, ticker)
	return o
}

// resultFromOutcome flattens an outcome into the cache row shape.
func resultFromOutcome(o *contracts.CriterionOutcome, cachedAt time.Time) *contracts.ScreeningResult {
	res := &contracts.ScreeningResult{
		Ticker:            o.Ticker,
		Name:              o.Ticker,
		EarningsGrowth:    o.EarningsGrowth.Ptr(),
		RelativeStrength:  o.RelativeStrength.Ptr(),
		CurrentPrice:      o.CurrentPrice.Ptr(),
		SMA50:             o.SMA50.Ptr(),
		AboveSMA:          o.AboveSMA.Ptr(),
		Volatility20D:     o.Volatility20D.Ptr(),
		OwnershipPercent:  o.OwnershipPercent.Ptr(),
		OperatingLeverage: o.OperatingLeverage.Ptr(),
		StoryReason:       o.Story.Reason,
		CachedAt:          cachedAt,
	}
	if o.Metadata != nil {
		res.Name = o.Metadata.Name
		res.Sector = o.Metadata.Sector
		res.Industry = o.Metadata.Industry
	}
	if o.Trend != nil {
		passed := o.Trend.Passed
		res.TrendPassed = &passed
	}
	passes := o.Story.Passes
	res.StoryPasses = &passes
	return res
}

// outcomeFromResult rebuilds an outcome from a cached row. Trend
// sub-checks are not persisted; only the aggregate verdict survives a
// cache hit.
func outcomeFromResult(row *contracts.ScreeningResult) *contracts.CriterionOutcome {
	o := &contracts.CriterionOutcome{
		Ticker:            row.Ticker,
		EarningsGrowth:    contracts.MetricFromPtr(row.EarningsGrowth),
		RelativeStrength:  contracts.MetricFromPtr(row.RelativeStrength),
		CurrentPrice:      contracts.MetricFromPtr(row.CurrentPrice),
		SMA50:             contracts.MetricFromPtr(row.SMA50),
		AboveSMA:          contracts.MetricFromPtr(row.AboveSMA),
		Volatility20D:     contracts.MetricFromPtr(row.Volatility20D),
		OwnershipPercent:  contracts.MetricFromPtr(row.OwnershipPercent),
		OperatingLeverage: contracts.MetricFromPtr(row.OperatingLeverage),
		Metadata: &contracts.CompanyMetadata{
			Ticker:   row.Ticker,
			Name:     row.Name,
			Sector:   row.Sector,
			Industry: row.Industry,
		},
	}
	if row.TrendPassed != nil {
		o.Trend = &contracts.TrendDetails{Passed: *row.TrendPassed}
	}
	o.Story = contracts.StoryVerdict{Passes: true, Reason: row.StoryReason}
	if row.StoryPasses != nil {
		o.Story.Passes = *row.StoryPasses
	}
	return o
}

// Prune removes cache rows older than the retention window.
func (e *Engine) Prune(ctx context.Context) (int64, error) {
	if e.results == nil {
		return 0, fmt.Errorf("no result store configured")
	}
	cutoff := e.now().AddDate(0, 0, -e.screen.CacheRetentionDays)
	n, err := e.results.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	e.logger.WithField("deleted", n).Info("cache pruned")
	return n, nil
}
