package metrics

import (
	"context"
	"math"

	"github.com/oldlogancap/logan-screener/internal/contracts"
)

// OperatingLeverage measures how net income growth scales with revenue
// growth across the two most recent stored quarterly filings. A ratio above
// 1.0 means profits grow faster than sales.
func (p *Provider) OperatingLeverage(ctx context.Context, ticker string) contracts.Metric[float64] {
	if p.filings == nil {
		return contracts.Unavailable[float64]()
	}
	filings, err := p.filings.ListRecent(ctx, ticker, 4)
	if err != nil {
		p.logger.WithError(err).WithField("ticker", ticker).
			Warn("operating leverage: filing lookup failed")
		return contracts.Unavailable[float64]()
	}

	// Keep the two newest filings that actually carry both line items.
	var usable []*contracts.QuarterlyFiling
	for _, f := range filings {
		if f.HasCoreFinancials() {
			usable = append(usable, f)
			if len(usable) == 2 {
				break
			}
		}
	}
	if len(usable) < 2 {
		return contracts.Unavailable[float64]()
	}

	// ListRecent is newest-first.
	return OperatingLeverageFromFilings(usable[1], usable[0])
}

// OperatingLeverageFromFilings computes niGrowth/revGrowth between an older
// and a newer filing. A zero base revenue, zero base net income, or zero
// revenue growth makes the ratio undefined.
func OperatingLeverageFromFilings(older, newer *contracts.QuarterlyFiling) contracts.Metric[float64] {
	if older == nil || newer == nil || !older.HasCoreFinancials() || !newer.HasCoreFinancials() {
		return contracts.Unavailable[float64]()
	}

	rev0, rev1 := *older.Revenue, *newer.Revenue
	ni0, ni1 := *older.NetIncome, *newer.NetIncome
	if rev0 == 0 || ni0 == 0 {
		return contracts.Unavailable[float64]()
	}

	revGrowth := (rev1 - rev0) / math.Abs(rev0)
	niGrowth := (ni1 - ni0) / math.Abs(ni0)
	if revGrowth == 0 {
		return contracts.Unavailable[float64]()
	}

	return contracts.MetricValue(niGrowth / revGrowth)
}
