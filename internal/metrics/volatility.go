package metrics

import (
	"context"

	"github.com/oldlogancap/logan-screener/internal/contracts"
)

// volatilityWindow is the number of trailing bars the range is measured
// over. Fewer bars than this yields unavailable, never a partial window.
const volatilityWindow = 20

// Volatility20D measures the trailing 20-session trading range as
// (maxHigh-minLow)/minLow. Tight ranges suggest accumulation.
func (p *Provider) Volatility20D(ctx context.Context, ticker string) contracts.Metric[float64] {
	bars, err := p.fetchBars(ctx, ticker, p.screen.HistoryDays)
	if err != nil {
		p.logger.WithError(err).WithField("ticker", ticker).
			Warn("volatility: price history fetch failed")
		return contracts.Unavailable[float64]()
	}
	return VolatilityFromBars(bars)
}

// VolatilityFromBars computes the range ratio over the most recent 20 bars
// of an oldest-first series.
func VolatilityFromBars(bars []contracts.PriceBar) contracts.Metric[float64] {
	if len(bars) < volatilityWindow {
		return contracts.Unavailable[float64]()
	}

	window := bars[len(bars)-volatilityWindow:]
	maxHigh := window[0].High
	minLow := window[0].Low
	for _, b := range window[1:] {
		if b.High > maxHigh {
			maxHigh = b.High
		}
		if b.Low < minLow {
			minLow = b.Low
		}
	}
	if minLow <= 0 {
		return contracts.Unavailable[float64]()
	}

	return contracts.MetricValue((maxHigh - minLow) / minLow)
}
