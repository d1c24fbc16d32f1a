package metrics

import (
	"context"

	"github.com/oldlogancap/logan-screener/internal/contracts"
	"github.com/oldlogancap/logan-screener/pkg/config"
	"github.com/oldlogancap/logan-screener/pkg/logger"
	"github.com/oldlogancap/logan-screener/pkg/retry"
)

// Provider computes quantitative signals for one ticker from upstream
// series. Every upstream fetch goes through the retry policy; a fetch that
// still fails surfaces as an unavailable metric, never as an error to the
// screening engine.
type Provider struct {
	market  contracts.MarketDataProvider
	filings contracts.FilingRepository
	retry   retry.Policy
	screen  config.ScreenConfig
	logger  *logger.Logger
}

// NewProvider creates a metric provider.
func NewProvider(
	market contracts.MarketDataProvider,
	filings contracts.FilingRepository,
	retryPolicy retry.Policy,
	screen config.ScreenConfig,
	log *logger.Logger,
) *Provider {
	return &Provider{
		market:  market,
		filings: filings,
		retry:   retryPolicy,
		screen:  screen,
		logger:  log,
	}
}

// fetchBars fetches daily bars with retry.
func (p *Provider) fetchBars(ctx context.Context, ticker string, days int) ([]contracts.PriceBar, error) {
	return retry.Do(ctx, p.retry, func(ctx context.Context) ([]contracts.PriceBar, error) {
		return p.market.DailyBars(ctx, ticker, days)
	})
}

// closes extracts the close series from bars, preserving order.
func closes(bars []contracts.PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// sma computes the simple moving average of the most recent `period`
// values. Returns false when the series is too short.
func sma(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period {
		return 0, false
	}
	var sum float64
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period), true
}
