package screener

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oldlogancap/logan-screener/internal/contracts"
	"github.com/oldlogancap/logan-screener/internal/metrics"
	"github.com/oldlogancap/logan-screener/internal/resolver"
	"github.com/oldlogancap/logan-screener/internal/story"
	"github.com/oldlogancap/logan-screener/pkg/config"
	"github.com/oldlogancap/logan-screener/pkg/logger"
	"github.com/oldlogancap/logan-screener/pkg/retry"
)

type fakeMarket struct {
	bars     map[string][]contracts.PriceBar
	income   map[string][]float64
	profiles map[string]*contracts.CompanyProfile

	barsCalls int
	panicOn   string
}

func (f *fakeMarket) DailyBars(_ context.Context, ticker string, _ int) ([]contracts.PriceBar, error) {
	if f.panicOn != "" && ticker == f.panicOn {
		panic("corrupt bar payload for " + ticker)
	}
	f.barsCalls++
	bars, ok := f.bars[ticker]
	if !ok {
		return nil, errors.New("no bars")
	}
	return bars, nil
}

func (f *fakeMarket) QuarterlyNetIncome(_ context.Context, ticker string) ([]float64, error) {
	return f.income[ticker], nil
}

func (f *fakeMarket) Profile(_ context.Context, ticker string) (*contracts.CompanyProfile, error) {
	p, ok := f.profiles[ticker]
	if !ok {
		return nil, errors.New("no profile")
	}
	return p, nil
}

func (f *fakeMarket) Headlines(_ context.Context, _ string, _ int) ([]string, error) {
	return []string{"Quarterly results beat expectations"}, nil
}

type fakeChat struct {
	configured bool
	response   string
}

func (f *fakeChat) Configured() bool { return f.configured }

func (f *fakeChat) Complete(context.Context, string, []contracts.ChatMessage) (string, error) {
	return f.response, nil
}

type stubFilingsProvider struct{}

func (stubFilingsProvider) ResolveCIK(context.Context, string) (string, error) {
	return "", errors.New("unavailable")
}

func (stubFilingsProvider) RecentFilings(context.Context, string, string, int) ([]contracts.FilingRef, error) {
	return nil, errors.New("unavailable")
}

func (stubFilingsProvider) FilingFacts(context.Context, string, contracts.FilingRef) (*contracts.StatementFacts, error) {
	return nil, errors.New("unavailable")
}

func (stubFilingsProvider) FilingDocument(context.Context, string, contracts.FilingRef) (string, error) {
	return "", errors.New("unavailable")
}

type memCompanyRepo struct {
	rows map[string]*contracts.CompanyMetadata
}

func (m *memCompanyRepo) Upsert(_ context.Context, meta *contracts.CompanyMetadata) error {
	m.rows[meta.Ticker] = meta
	return nil
}

func (m *memCompanyRepo) Get(_ context.Context, ticker string) (*contracts.CompanyMetadata, error) {
	return m.rows[ticker], nil
}

type memFilingRepo struct {
	filings map[string][]*contracts.QuarterlyFiling
}

func (m *memFilingRepo) ExistsByAccession(context.Context, string) (bool, error) {
	return false, nil
}

func (m *memFilingRepo) Insert(context.Context, *contracts.QuarterlyFiling) error {
	return nil
}

func (m *memFilingRepo) ListRecent(_ context.Context, ticker string, limit int) ([]*contracts.QuarterlyFiling, error) {
	fs := m.filings[ticker]
	if len(fs) > limit {
		fs = fs[:limit]
	}
	return fs, nil
}

type memResultRepo struct {
	rows  []*contracts.ScreeningResult
	saves int
}

func (m *memResultRepo) Save(_ context.Context, result *contracts.ScreeningResult) error {
	m.saves++
	m.rows = append(m.rows, result)
	return nil
}

func (m *memResultRepo) GetFresh(_ context.Context, ticker string, cutoff time.Time) (*contracts.ScreeningResult, error) {
	var best *contracts.ScreeningResult
	for _, r := range m.rows {
		if r.Ticker == ticker && r.CachedAt.After(cutoff) {
			if best == nil || r.CachedAt.After(best.CachedAt) {
				best = r
			}
		}
	}
	return best, nil
}

func (m *memResultRepo) ListFresh(_ context.Context, cutoff time.Time) ([]*contracts.ScreeningResult, error) {
	latest := make(map[string]*contracts.ScreeningResult)
	for _, r := range m.rows {
		if !r.CachedAt.After(cutoff) {
			continue
		}
		if best, ok := latest[r.Ticker]; !ok || r.CachedAt.After(best.CachedAt) {
			latest[r.Ticker] = r
		}
	}
	out := make([]*contracts.ScreeningResult, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	return out, nil
}

func (m *memResultRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var kept []*contracts.ScreeningResult
	var deleted int64
	for _, r := range m.rows {
		if r.CachedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	m.rows = kept
	return deleted, nil
}

// risingThenFlat builds an uptrend that goes quiet at the end: rising bars
// followed by flat ones, so the trend template passes and the 20-day range
// stays tight.
func risingThenFlat(rising int, start, step float64, flat int, level float64) []contracts.PriceBar {
	day := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.PriceBar, 0, rising+flat)
	for i := 0; i < rising; i++ {
		c := start + float64(i)*step
		bars = append(bars, contracts.PriceBar{
			Date: day.AddDate(0, 0, i), Open: c, High: c * 1.01, Low: c * 0.99, Close: c, Volume: 1e6,
		})
	}
	for i := 0; i < flat; i++ {
		bars = append(bars, contracts.PriceBar{
			Date: day.AddDate(0, 0, rising+i), Open: level, High: level + 0.5, Low: level - 0.5, Close: level, Volume: 1e6,
		})
	}
	return bars
}

func linearCloses(n int, start, step float64) []contracts.PriceBar {
	day := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.PriceBar, n)
	for i := range bars {
		c := start + float64(i)*step
		bars[i] = contracts.PriceBar{
			Date: day.AddDate(0, 0, i), Open: c, High: c * 1.01, Low: c * 0.99, Close: c, Volume: 1e6,
		}
	}
	return bars
}

func fptr(v float64) *float64 { return &v }

// newTestHarness wires an engine over in-memory fakes. AAPL is set up to
// pass every professional criterion; WEAK matches AAPL except for thin
// institutional ownership.
func newTestHarness(cfg config.ScreenConfig, chat contracts.ChatProvider) (*Engine, *fakeMarket, *memResultRepo) {
	uptrend := risingThenFlat(240, 100, 0.5, 20, 220)
	market := &fakeMarket{
		bars: map[string][]contracts.PriceBar{
			"AAPL": uptrend,
			"WEAK": uptrend,
			"SPY":  linearCloses(260, 100, 0.1),
		},
		income: map[string][]float64{
			"AAPL": {12, 11, 11, 10.5, 10},
			"WEAK": {12, 11, 11, 10.5, 10},
		},
		profiles: map[string]*contracts.CompanyProfile{
			"AAPL": {
				Name: "Apple Inc.", Sector: "Technology", Industry: "Consumer Electronics",
				CIK:    "320193",
				Fields: map[string]float64{"heldPercentInstitutions": 0.61},
			},
			"WEAK": {
				Name:   "Weak Hands Inc.",
				Fields: map[string]float64{"heldPercentInstitutions": 0.25},
			},
			"SPY": {Name: "SPDR S&P 500 ETF"},
		},
	}

	filingRepo := &memFilingRepo{filings: map[string][]*contracts.QuarterlyFiling{
		"AAPL": {
			{Ticker: "AAPL", AccessionNumber: "a2", Revenue: fptr(120), NetIncome: fptr(15)},
			{Ticker: "AAPL", AccessionNumber: "a1", Revenue: fptr(100), NetIncome: fptr(10)},
		},
	}}
	results := &memResultRepo{}

	policy := retry.Policy{MaxAttempts: 1, BaseDelay: time.Millisecond}
	nop := logger.NewNop()

	metricProvider := metrics.NewProvider(market, filingRepo, policy, cfg, nop)
	storyAnalyzer := story.NewAnalyzer(chat, market, nop)
	res := resolver.New(market, stubFilingsProvider{}, &memCompanyRepo{rows: map[string]*contracts.CompanyMetadata{}}, filingRepo, policy, nop)

	engine := NewEngine(metricProvider, storyAnalyzer, res, results, cfg, nop)
	return engine, market, results
}

func TestScreenProfessionalEndToEnd(t *testing.T) {
	cfg := testScreenConfig(config.ProfileProfessional)
	engine, _, results := newTestHarness(cfg, &fakeChat{configured: false})

	report, err := engine.Screen(context.Background(), []string{"aapl", "WEAK", "not a ticker", "AAPL"})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Screened)
	assert.Equal(t, "duplicate symbol", report.Skipped["AAPL"])
	assert.Contains(t, report.Skipped, "not a ticker")

	require.Len(t, report.Passed, 1)
	row := report.Passed[0]
	assert.Equal(t, "AAPL", row.Ticker)
	assert.Equal(t, "Apple Inc.", row.Company)
	require.NotNil(t, row.EarningsGrowthPct)
	assert.InDelta(t, 20.0, *row.EarningsGrowthPct, 1e-6)
	require.NotNil(t, row.OperatingLeverage)
	assert.InDelta(t, 2.5, *row.OperatingLeverage, 1e-9)

	assert.Equal(t, FilterSponsorship, report.Failures["WEAK"])
	assert.Equal(t, 2, results.saves)
}

func TestScreenSecondRunHitsCache(t *testing.T) {
	cfg := testScreenConfig(config.ProfileProfessional)
	engine, market, results := newTestHarness(cfg, &fakeChat{configured: false})
	ctx := context.Background()

	first, err := engine.Screen(ctx, []string{"AAPL"})
	require.NoError(t, err)
	assert.Equal(t, 0, first.CacheHits)
	callsAfterFirst := market.barsCalls

	second, err := engine.Screen(ctx, []string{"AAPL"})
	require.NoError(t, err)
	assert.Equal(t, 1, second.CacheHits)
	assert.Equal(t, callsAfterFirst, market.barsCalls, "cache hit must not refetch")
	assert.Equal(t, 1, results.saves, "cache hit must not re-save")

	// Same verdict either way.
	require.Len(t, second.Passed, 1)
	assert.Equal(t, "AAPL", second.Passed[0].Ticker)
}

func TestScreenStaleCacheRecomputes(t *testing.T) {
	cfg := testScreenConfig(config.ProfileProfessional)
	cfg.CacheMaxAge = 24 * time.Hour
	engine, _, results := newTestHarness(cfg, &fakeChat{configured: false})

	stale := &contracts.ScreeningResult{
		Ticker:   "AAPL",
		Name:     "Apple Inc.",
		CachedAt: time.Now().Add(-25 * time.Hour),
	}
	require.NoError(t, results.Save(context.Background(), stale))
	results.saves = 0

	report, err := engine.Screen(context.Background(), []string{"AAPL"})
	require.NoError(t, err)
	assert.Equal(t, 0, report.CacheHits)
	assert.Equal(t, 1, results.saves)
}

func TestScreenClassicProfileSkipsProfessionalCriteria(t *testing.T) {
	cfg := testScreenConfig(config.ProfileClassic)
	// A chat backend that would reject everything; classic must never ask.
	chat := &fakeChat{configured: true, response: `{"passes": false, "reason": "rejected"}`}
	engine, _, _ := newTestHarness(cfg, chat)

	report, err := engine.Screen(context.Background(), []string{"AAPL", "WEAK"})
	require.NoError(t, err)

	// WEAK fails only sponsorship, which classic does not check.
	assert.Len(t, report.Passed, 2)
	assert.Empty(t, report.Failures)
}

func TestScreenContainsProviderPanic(t *testing.T) {
	cfg := testScreenConfig(config.ProfileProfessional)
	engine, market, _ := newTestHarness(cfg, &fakeChat{configured: false})
	market.panicOn = "WEAK"

	report, err := engine.Screen(context.Background(), []string{"AAPL", "WEAK"})
	require.NoError(t, err, "one bad ticker must not abort the batch")

	require.Len(t, report.Passed, 1)
	assert.Equal(t, "AAPL", report.Passed[0].Ticker)
	assert.Contains(t, report.Failures, "WEAK")
}

func TestScreenContextCancellation(t *testing.T) {
	cfg := testScreenConfig(config.ProfileProfessional)
	engine, _, _ := newTestHarness(cfg, &fakeChat{configured: false})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Screen(ctx, []string{"AAPL"})
	assert.Error(t, err)
}

func TestPrune(t *testing.T) {
	cfg := testScreenConfig(config.ProfileProfessional)
	cfg.CacheRetentionDays = 30
	engine, _, results := newTestHarness(cfg, &fakeChat{configured: false})
	ctx := context.Background()

	require.NoError(t, results.Save(ctx, &contracts.ScreeningResult{
		Ticker: "OLD", CachedAt: time.Now().AddDate(0, 0, -45),
	}))
	require.NoError(t, results.Save(ctx, &contracts.ScreeningResult{
		Ticker: "NEW", CachedAt: time.Now(),
	}))

	n, err := engine.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Len(t, results.rows, 1)
}
