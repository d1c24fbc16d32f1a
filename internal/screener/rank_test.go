package screener

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oldlogancap/logan-screener/internal/contracts"
	"github.com/oldlogancap/logan-screener/pkg/config"
)

func outcomeWith(ticker string, leverage, strength contracts.Metric[float64]) *contracts.CriterionOutcome {
	o := passingOutcome(ticker)
	o.OperatingLeverage = leverage
	o.RelativeStrength = strength
	return o
}

func tickerOrder(rows []contracts.ResultRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Ticker
	}
	return out
}

func TestRankByLeverageNullsLast(t *testing.T) {
	outcomes := []*contracts.CriterionOutcome{
		outcomeWith("MID", contracts.MetricValue(0.8), contracts.MetricValue(1.2)),
		outcomeWith("NONE", contracts.Unavailable[float64](), contracts.MetricValue(1.9)),
		outcomeWith("TOP", contracts.MetricValue(2.1), contracts.MetricValue(1.1)),
	}

	rows := Rank(outcomes, config.RankByLeverage, 0)
	assert.Equal(t, []string{"TOP", "MID", "NONE"}, tickerOrder(rows))
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 3, rows[2].Rank)
}

func TestRankLeverageTieFallsBackToStrength(t *testing.T) {
	outcomes := []*contracts.CriterionOutcome{
		outcomeWith("WEAK", contracts.MetricValue(1.5), contracts.MetricValue(1.1)),
		outcomeWith("STRONG", contracts.MetricValue(1.5), contracts.MetricValue(1.8)),
	}

	rows := Rank(outcomes, config.RankByLeverage, 0)
	assert.Equal(t, []string{"STRONG", "WEAK"}, tickerOrder(rows))
}

func TestRankByStrength(t *testing.T) {
	outcomes := []*contracts.CriterionOutcome{
		outcomeWith("A", contracts.MetricValue(9.0), contracts.MetricValue(1.1)),
		outcomeWith("B", contracts.Unavailable[float64](), contracts.MetricValue(1.8)),
		outcomeWith("C", contracts.MetricValue(0.1), contracts.Unavailable[float64]()),
	}

	rows := Rank(outcomes, config.RankByStrength, 0)
	assert.Equal(t, []string{"B", "A", "C"}, tickerOrder(rows))
}

func TestRankTickerBreaksFullTies(t *testing.T) {
	outcomes := []*contracts.CriterionOutcome{
		outcomeWith("ZZZ", contracts.Unavailable[float64](), contracts.Unavailable[float64]()),
		outcomeWith("AAA", contracts.Unavailable[float64](), contracts.Unavailable[float64]()),
	}

	rows := Rank(outcomes, config.RankByLeverage, 0)
	assert.Equal(t, []string{"AAA", "ZZZ"}, tickerOrder(rows))
}

func TestRankLimit(t *testing.T) {
	outcomes := []*contracts.CriterionOutcome{
		outcomeWith("A", contracts.MetricValue(3.0), contracts.MetricValue(1.1)),
		outcomeWith("B", contracts.MetricValue(2.0), contracts.MetricValue(1.1)),
		outcomeWith("C", contracts.MetricValue(1.0), contracts.MetricValue(1.1)),
	}

	rows := Rank(outcomes, config.RankByLeverage, 2)
	assert.Equal(t, []string{"A", "B"}, tickerOrder(rows))
}

func TestRankRowFields(t *testing.T) {
	o := passingOutcome("AAPL")
	o.Metadata = &contracts.CompanyMetadata{
		Ticker: "AAPL", Name: "Apple Inc.", Sector: "Technology", Industry: "Consumer Electronics",
	}
	o.EarningsGrowth = contracts.MetricValue(0.25)

	rows := Rank([]*contracts.CriterionOutcome{o}, config.RankByLeverage, 0)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "Apple Inc.", row.Company)
	assert.Equal(t, "Technology", row.Sector)
	require.NotNil(t, row.EarningsGrowthPct)
	assert.InDelta(t, 25.0, *row.EarningsGrowthPct, 1e-9)
	require.NotNil(t, row.OperatingLeverage)
	assert.InDelta(t, 2.1, *row.OperatingLeverage, 1e-9)
}
