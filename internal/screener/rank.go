package screener

import (
	"sort"

	"github.com/oldlogancap/logan-screener/internal/contracts"
	"github.com/oldlogancap/logan-screener/pkg/config"
)

// Rank orders passing outcomes into the final result rows. The primary key
// depends on configuration: operating leverage or relative strength,
// descending, with missing values last. Ties and fallbacks resolve by
// relative strength, then ticker for a stable order.
func Rank(outcomes []*contracts.CriterionOutcome, rankBy string, limit int) []contracts.ResultRow {
	sorted := make([]*contracts.CriterionOutcome, len(outcomes))
	copy(sorted, outcomes)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if rankBy == config.RankByLeverage {
			if cmp, decided := compareDesc(a.OperatingLeverage, b.OperatingLeverage); decided {
				return cmp
			}
		}
		if cmp, decided := compareDesc(a.RelativeStrength, b.RelativeStrength); decided {
			return cmp
		}
		return a.Ticker < b.Ticker
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	rows := make([]contracts.ResultRow, 0, len(sorted))
	for i, o := range sorted {
		rows = append(rows, buildRow(i+1, o))
	}
	return rows
}

// compareDesc orders two optional metrics descending with missing values
// last. The second return is false when the pair is tied or both missing,
// letting the caller fall through to the next key.
func compareDesc(a, b contracts.Metric[float64]) (less, decided bool) {
	av, aok := a.Get()
	bv, bok := b.Get()
	switch {
	case aok && !bok:
		return true, true
	case !aok && bok:
		return false, true
	case !aok && !bok:
		return false, false
	case av != bv:
		return av > bv, true
	default:
		return false, false
	}
}

func buildRow(rank int, o *contracts.CriterionOutcome) contracts.ResultRow {
	row := contracts.ResultRow{
		Rank:              rank,
		Ticker:            o.Ticker,
		Company:           o.Ticker,
		RelativeStrength:  o.RelativeStrength.Ptr(),
		Price:             o.CurrentPrice.Ptr(),
		SMA50:             o.SMA50.Ptr(),
		OperatingLeverage: o.OperatingLeverage.Ptr(),
		StoryReason:       o.Story.Reason,
	}
	if o.Metadata != nil {
		if o.Metadata.Name != "" {
			row.Company = o.Metadata.Name
		}
		row.Sector = o.Metadata.Sector
		row.Industry = o.Metadata.Industry
	}
	if eg, ok := o.EarningsGrowth.Get(); ok {
		pct := eg * 100
		row.EarningsGrowthPct = &pct
	}
	return row
}
