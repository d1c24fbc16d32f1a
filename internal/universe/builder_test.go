package universe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oldlogancap/logan-screener/internal/contracts"
	"github.com/oldlogancap/logan-screener/pkg/logger"
	"github.com/oldlogancap/logan-screener/pkg/retry"
)

type fakeSource struct {
	constituents map[string][]string
	err          error
}

func (f *fakeSource) Constituents(_ context.Context, index string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.constituents[index], nil
}

func (f *fakeSource) Indices() []string { return []string{"sp500", "nasdaq100"} }

type fakeCapMarket struct {
	caps    map[string]float64
	sectors map[string]string
}

func (f *fakeCapMarket) DailyBars(context.Context, string, int) ([]contracts.PriceBar, error) {
	return nil, nil
}

func (f *fakeCapMarket) QuarterlyNetIncome(context.Context, string) ([]float64, error) {
	return nil, nil
}

func (f *fakeCapMarket) Profile(_ context.Context, ticker string) (*contracts.CompanyProfile, error) {
	cap, ok := f.caps[ticker]
	if !ok {
		return nil, errors.New("no profile")
	}
	return &contracts.CompanyProfile{MarketCap: cap, Sector: f.sectors[ticker]}, nil
}

func (f *fakeCapMarket) Headlines(context.Context, string, int) ([]string, error) {
	return nil, nil
}

func newTestBuilder(source *fakeSource, market contracts.MarketDataProvider) *Builder {
	return NewBuilder(source, market,
		retry.Policy{MaxAttempts: 1, BaseDelay: time.Millisecond},
		logger.NewNop())
}

func TestBuildNormalizesAndDedupes(t *testing.T) {
	source := &fakeSource{constituents: map[string][]string{
		"sp500": {"aapl", " MSFT ", "BRK.B", "AAPL", "$NVDA", "toolongticker", ""},
	}}
	b := newTestBuilder(source, nil)

	report, err := b.Build(context.Background(), "sp500", 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"AAPL", "MSFT", "BRK-B", "NVDA"}, report.Included)
	assert.Equal(t, 7, report.Fetched)
	assert.Equal(t, ReasonDuplicate, report.Excluded["AAPL"])
	assert.Equal(t, ReasonInvalidTicker, report.Excluded["toolongticker"])
	assert.Equal(t, ReasonInvalidTicker, report.Excluded[""])
}

func TestBuildTruncatesByMarketCap(t *testing.T) {
	source := &fakeSource{constituents: map[string][]string{
		"sp500": {"AAA", "BBB", "CCC", "DDD"},
	}}
	market := &fakeCapMarket{caps: map[string]float64{
		"AAA": 10e9,
		"BBB": 500e9,
		"CCC": 100e9,
		"DDD": 2e9,
	}}
	b := newTestBuilder(source, market)

	report, err := b.Build(context.Background(), "sp500", 2)
	require.NoError(t, err)

	// Largest two, in original constituent order.
	assert.Equal(t, []string{"BBB", "CCC"}, report.Included)
}

func TestBuildTruncateWithoutMarketData(t *testing.T) {
	source := &fakeSource{constituents: map[string][]string{
		"sp500": {"AAA", "BBB", "CCC"},
	}}
	b := newTestBuilder(source, nil)

	report, err := b.Build(context.Background(), "sp500", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAA", "BBB"}, report.Included)
}

func TestBuildFailedCapLookupRanksLast(t *testing.T) {
	source := &fakeSource{constituents: map[string][]string{
		"sp500": {"AAA", "BBB", "CCC"},
	}}
	market := &fakeCapMarket{caps: map[string]float64{
		"AAA": 10e9,
		"CCC": 100e9,
		// BBB has no profile
	}}
	b := newTestBuilder(source, market)

	report, err := b.Build(context.Background(), "sp500", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAA", "CCC"}, report.Included)
}

func TestFilterSector(t *testing.T) {
	market := &fakeCapMarket{
		caps: map[string]float64{"AAA": 1, "BBB": 1, "CCC": 1},
		sectors: map[string]string{
			"AAA": "Technology",
			"BBB": "Healthcare",
			"CCC": "technology",
			// DDD has no profile
		},
	}
	b := newTestBuilder(&fakeSource{}, market)

	kept, excluded := b.FilterSector(context.Background(), []string{"AAA", "BBB", "CCC", "DDD"}, "Technology")

	assert.Equal(t, []string{"AAA", "CCC"}, kept)
	assert.Equal(t, ReasonSectorMismatch, excluded["BBB"])
	assert.Equal(t, ReasonSectorUnknown, excluded["DDD"])
}

func TestFilterSectorWithoutMarketData(t *testing.T) {
	b := newTestBuilder(&fakeSource{}, nil)

	kept, excluded := b.FilterSector(context.Background(), []string{"AAA", "BBB"}, "Technology")
	assert.Equal(t, []string{"AAA", "BBB"}, kept)
	assert.Empty(t, excluded)
}

func TestBuildSourceError(t *testing.T) {
	b := newTestBuilder(&fakeSource{err: errors.New("scrape failed")}, nil)

	_, err := b.Build(context.Background(), "sp500", 0)
	assert.Error(t, err)
}
