package metrics

import (
	"context"
	"math"

	"github.com/oldlogancap/logan-screener/internal/contracts"
	"github.com/oldlogancap/logan-screener/pkg/retry"
)

// minQuartersForGrowth is the current quarter plus the same quarter one
// year back.
const minQuartersForGrowth = 5

// EarningsGrowth computes year-over-year quarterly net income growth as a
// decimal fraction. The comparison is same-quarter to avoid seasonality.
func (p *Provider) EarningsGrowth(ctx context.Context, ticker string) contracts.Metric[float64] {
	series, err := retry.Do(ctx, p.retry, func(ctx context.Context) ([]float64, error) {
		return p.market.QuarterlyNetIncome(ctx, ticker)
	})
	if err != nil {
		p.logger.WithError(err).WithField("ticker", ticker).
			Warn("earnings growth: quarterly series fetch failed")
		return contracts.Unavailable[float64]()
	}

	return EarningsGrowthFromSeries(series)
}

// EarningsGrowthFromSeries computes (q0-q4)/|q4| from a most-recent-first
// quarterly net income series. Fewer than five quarters, a NaN in either
// endpoint, or a zero year-ago quarter yields unavailable.
func EarningsGrowthFromSeries(quarters []float64) contracts.Metric[float64] {
	if len(quarters) < minQuartersForGrowth {
		return contracts.Unavailable[float64]()
	}
	current := quarters[0]
	yearAgo := quarters[4]
	if math.IsNaN(current) || math.IsNaN(yearAgo) || yearAgo == 0 {
		return contracts.Unavailable[float64]()
	}
	return contracts.MetricValue((current - yearAgo) / math.Abs(yearAgo))
}
