package metrics

import (
	"context"

	"github.com/oldlogancap/logan-screener/internal/contracts"
)

const (
	// minTrendBars is roughly one trading year; the template is not
	// evaluated on younger listings.
	minTrendBars = 250

	sma150Period = 150

	// sma200Lookback is how many sessions back the 200-day average is
	// re-measured to confirm it is rising.
	sma200Lookback = 20

	// maxPctBelowHigh and minPctAboveLow bound the price's position within
	// its 52-week range.
	maxPctBelowHigh = 0.25
	minPctAboveLow  = 0.30
)

// TrendTemplate evaluates the stage-2 uptrend checks over the trailing
// year. A nil result means the history was too short to judge.
func (p *Provider) TrendTemplate(ctx context.Context, ticker string) *contracts.TrendDetails {
	bars, err := p.fetchBars(ctx, ticker, p.screen.HistoryDays)
	if err != nil {
		p.logger.WithError(err).WithField("ticker", ticker).
			Warn("trend template: price history fetch failed")
		return nil
	}
	return EvaluateTrendTemplate(bars, p.screen.SMA200Period)
}

// EvaluateTrendTemplate runs the five sub-checks against an oldest-first
// bar series. All five must hold for Passed.
func EvaluateTrendTemplate(bars []contracts.PriceBar, sma200Period int) *contracts.TrendDetails {
	if len(bars) < minTrendBars || sma200Period <= 0 {
		return nil
	}

	cs := closes(bars)
	price := cs[len(cs)-1]

	sma150, ok150 := sma(cs, sma150Period)
	sma200, ok200 := sma(cs, sma200Period)
	sma200Prior, okPrior := sma(cs[:len(cs)-sma200Lookback], sma200Period)
	if !ok150 || !ok200 || !okPrior {
		return nil
	}

	// 52-week range from the most recent year of bars.
	window := bars
	if len(window) > minTrendBars {
		window = window[len(window)-minTrendBars:]
	}
	high52 := window[0].High
	low52 := window[0].Low
	for _, b := range window[1:] {
		if b.High > high52 {
			high52 = b.High
		}
		if b.Low < low52 {
			low52 = b.Low
		}
	}
	if high52 <= 0 || low52 <= 0 {
		return nil
	}

	d := &contracts.TrendDetails{
		PriceAboveSMA150:  price > sma150,
		PriceAboveSMA200:  price > sma200,
		SMA150AboveSMA200: sma150 > sma200,
		SMA200Rising:      sma200 > sma200Prior,
		NearHigh:          price >= high52*(1-maxPctBelowHigh),
		OffLow:            price >= low52*(1+minPctAboveLow),

		CurrentPrice: price,
		SMA150:       sma150,
		SMA200:       sma200,
		PctFromHigh:  (price/high52 - 1) * 100,
		PctFromLow:   (price/low52 - 1) * 100,
	}
	d.Passed = d.PriceAboveSMA150 && d.PriceAboveSMA200 && d.SMA150AboveSMA200 &&
		d.SMA200Rising && d.NearHigh && d.OffLow
	return d
}

// SMATrend is the classic moving-average check: current price versus the
// configured simple moving average.
func (p *Provider) SMATrend(ctx context.Context, ticker string) (price, smaValue contracts.Metric[float64], above contracts.Metric[bool]) {
	bars, err := p.fetchBars(ctx, ticker, p.screen.HistoryDays)
	if err != nil {
		p.logger.WithError(err).WithField("ticker", ticker).
			Warn("sma trend: price history fetch failed")
		return contracts.Unavailable[float64](), contracts.Unavailable[float64](), contracts.Unavailable[bool]()
	}
	return SMATrendFromBars(bars, p.screen.SMAPeriod)
}

// SMATrendFromBars computes the latest close, the moving average, and
// whether the close sits above it.
func SMATrendFromBars(bars []contracts.PriceBar, period int) (price, smaValue contracts.Metric[float64], above contracts.Metric[bool]) {
	if len(bars) == 0 {
		return contracts.Unavailable[float64](), contracts.Unavailable[float64](), contracts.Unavailable[bool]()
	}

	cs := closes(bars)
	last := cs[len(cs)-1]
	price = contracts.MetricValue(last)

	avg, ok := sma(cs, period)
	if !ok {
		return price, contracts.Unavailable[float64](), contracts.Unavailable[bool]()
	}
	return price, contracts.MetricValue(avg), contracts.MetricValue(last > avg)
}
