package metrics

import (
	"context"

	"github.com/oldlogancap/logan-screener/internal/contracts"
)

// RelativeStrength compares the ticker's trailing-year performance against
// the benchmark. A value above 1.0 means the ticker outperformed.
func (p *Provider) RelativeStrength(ctx context.Context, ticker string) contracts.Metric[float64] {
	tickerBars, err := p.fetchBars(ctx, ticker, p.screen.HistoryDays)
	if err != nil {
		p.logger.WithError(err).WithField("ticker", ticker).
			Warn("relative strength: price history fetch failed")
		return contracts.Unavailable[float64]()
	}

	benchBars, err := p.fetchBars(ctx, p.screen.BenchmarkTicker, p.screen.HistoryDays)
	if err != nil {
		p.logger.WithError(err).WithField("benchmark", p.screen.BenchmarkTicker).
			Warn("relative strength: benchmark history fetch failed")
		return contracts.Unavailable[float64]()
	}

	return RelativeStrengthFromCloses(closes(tickerBars), closes(benchBars))
}

// RelativeStrengthFromCloses computes (1+tickerPerf)/(1+benchPerf) from two
// oldest-first close series. Either series shorter than 2 points, a zero
// starting close, a perfectly flat benchmark, or a benchmark that lost its
// entire value makes the ratio undefined.
func RelativeStrengthFromCloses(ticker, benchmark []float64) contracts.Metric[float64] {
	tp, ok := periodReturn(ticker)
	if !ok {
		return contracts.Unavailable[float64]()
	}
	bp, ok := periodReturn(benchmark)
	if !ok {
		return contracts.Unavailable[float64]()
	}
	if bp == 0 || 1+bp == 0 {
		return contracts.Unavailable[float64]()
	}
	return contracts.MetricValue((1 + tp) / (1 + bp))
}

// periodReturn is (last-first)/first over an oldest-first close series.
func periodReturn(closes []float64) (float64, bool) {
	if len(closes) < 2 {
		return 0, false
	}
	first := closes[0]
	if first == 0 {
		return 0, false
	}
	return (closes[len(closes)-1] - first) / first, true
}
