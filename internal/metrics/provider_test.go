package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/oldlogancap/logan-screener/internal/contracts"
	"github.com/oldlogancap/logan-screener/pkg/config"
	"github.com/oldlogancap/logan-screener/pkg/logger"
	"github.com/oldlogancap/logan-screener/pkg/retry"
)

// fakeMarket is an in-memory MarketDataProvider keyed by ticker.
type fakeMarket struct {
	bars      map[string][]contracts.PriceBar
	income    map[string][]float64
	profiles  map[string]*contracts.CompanyProfile
	headlines map[string][]string
	err       error
}

func (f *fakeMarket) DailyBars(_ context.Context, ticker string, _ int) ([]contracts.PriceBar, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bars[ticker], nil
}

func (f *fakeMarket) QuarterlyNetIncome(_ context.Context, ticker string) ([]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.income[ticker], nil
}

func (f *fakeMarket) Profile(_ context.Context, ticker string) (*contracts.CompanyProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profiles[ticker], nil
}

func (f *fakeMarket) Headlines(_ context.Context, ticker string, _ int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.headlines[ticker], nil
}

// fakeFilingRepo serves canned filings, newest first.
type fakeFilingRepo struct {
	filings map[string][]*contracts.QuarterlyFiling
	err     error
}

func (f *fakeFilingRepo) ExistsByAccession(context.Context, string) (bool, error) {
	return false, nil
}

func (f *fakeFilingRepo) Insert(context.Context, *contracts.QuarterlyFiling) error {
	return nil
}

func (f *fakeFilingRepo) ListRecent(_ context.Context, ticker string, limit int) ([]*contracts.QuarterlyFiling, error) {
	if f.err != nil {
		return nil, f.err
	}
	fs := f.filings[ticker]
	if len(fs) > limit {
		fs = fs[:limit]
	}
	return fs, nil
}

func testScreenConfig() config.ScreenConfig {
	return config.ScreenConfig{
		Profile:                   config.ProfileProfessional,
		RankBy:                    config.RankByLeverage,
		EarningsGrowthThreshold:   0.20,
		RelativeStrengthThreshold: 1.0,
		SMAPeriod:                 50,
		SMA200Period:              200,
		BenchmarkTicker:           "SPY",
		MinInstitutionalOwnership: 30.0,
		MaxVolatility20D:          0.05,
		HistoryDays:               365,
	}
}

func newTestProvider(market *fakeMarket, filings *fakeFilingRepo) *Provider {
	return NewProvider(
		market,
		filings,
		retry.Policy{MaxAttempts: 1, BaseDelay: time.Millisecond},
		testScreenConfig(),
		logger.NewNop(),
	)
}

// linearBars builds an oldest-first series of n bars with closes stepping
// from start by step, highs 1% above and lows 1% below the close.
func linearBars(n int, start, step float64) []contracts.PriceBar {
	bars := make([]contracts.PriceBar, n)
	day := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		c := start + float64(i)*step
		bars[i] = contracts.PriceBar{
			Date:   day.AddDate(0, 0, i),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1_000_000,
		}
	}
	return bars
}

func TestProviderRelativeStrength(t *testing.T) {
	market := &fakeMarket{bars: map[string][]contracts.PriceBar{
		"AAPL": {{Close: 100}, {Close: 150}},
		"SPY":  {{Close: 100}, {Close: 120}},
	}}
	p := newTestProvider(market, &fakeFilingRepo{})

	m := p.RelativeStrength(context.Background(), "AAPL")
	v, ok := m.Get()
	assert.True(t, ok)
	assert.InDelta(t, 1.25, v, 1e-9)
}

func TestProviderRelativeStrengthFetchError(t *testing.T) {
	market := &fakeMarket{err: errors.New("upstream down")}
	p := newTestProvider(market, &fakeFilingRepo{})

	m := p.RelativeStrength(context.Background(), "AAPL")
	assert.False(t, m.Available())
}

func TestProviderEarningsGrowthFetchError(t *testing.T) {
	market := &fakeMarket{err: errors.New("upstream down")}
	p := newTestProvider(market, &fakeFilingRepo{})

	m := p.EarningsGrowth(context.Background(), "AAPL")
	assert.False(t, m.Available())
}
