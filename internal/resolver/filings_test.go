package resolver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oldlogancap/logan-screener/internal/contracts"
)

const sampleFiling = `
<html><body>
<p>Item 2. Management&#8217;s Discussion and Analysis of Financial Condition</p>
<p>Revenue grew on strong product demand. Margins expanded.</p>
<p>Item 3. Quantitative and Qualitative Disclosures About Market Risk</p>
</body></html>`

func TestIngestLatestFiling(t *testing.T) {
	market := &fakeMarket{profiles: map[string]*contracts.CompanyProfile{
		"AAPL": {Name: "Apple Inc.", CIK: "320193"},
	}}
	filings := &fakeFilings{
		refs: []contracts.FilingRef{{
			FormType:        "10-Q",
			FilingDate:      time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
			AccessionNumber: "0000320193-26-000055",
		}},
		facts: map[string]*contracts.StatementFacts{
			"0000320193-26-000055": {
				IncomeStatement: map[string]float64{
					"RevenueFromContractWithCustomerExcludingAssessedTax": 95_000_000_000,
					"NetIncomeLoss": 24_000_000_000,
				},
				BalanceSheet: map[string]float64{
					"Assets":      350_000_000_000,
					"Liabilities": 280_000_000_000,
				},
			},
		},
		documents: map[string]string{"0000320193-26-000055": sampleFiling},
	}
	store := &memFilingRepo{}
	r := newTestResolver(market, filings, newMemCompanyRepo(), store)

	f, inserted, err := r.IngestLatestFiling(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.True(t, inserted)

	assert.Equal(t, "AAPL", f.Ticker)
	assert.Equal(t, "10-Q", f.FormType)
	require.NotNil(t, f.Revenue)
	assert.InDelta(t, 95e9, *f.Revenue, 1)
	require.NotNil(t, f.NetIncome)
	assert.InDelta(t, 24e9, *f.NetIncome, 1)
	require.NotNil(t, f.TotalAssets)
	require.NotNil(t, f.TotalLiabilities)
	require.NotNil(t, f.ManagementDiscussion)
	assert.Contains(t, *f.ManagementDiscussion, "Revenue grew on strong product demand")
	assert.NotContains(t, *f.ManagementDiscussion, "Quantitative and Qualitative")

	assert.Len(t, store.rows, 1)
}

func TestIngestLatestFilingIdempotent(t *testing.T) {
	market := &fakeMarket{profiles: map[string]*contracts.CompanyProfile{
		"AAPL": {Name: "Apple Inc.", CIK: "320193"},
	}}
	filings := &fakeFilings{
		refs: []contracts.FilingRef{{
			FormType:        "10-Q",
			AccessionNumber: "acc-1",
		}},
		facts: map[string]*contracts.StatementFacts{
			"acc-1": {IncomeStatement: map[string]float64{"Revenues": 100}},
		},
	}
	store := &memFilingRepo{}
	r := newTestResolver(market, filings, newMemCompanyRepo(), store)
	ctx := context.Background()

	_, inserted, err := r.IngestLatestFiling(ctx, "AAPL")
	require.NoError(t, err)
	assert.True(t, inserted)

	_, inserted, err = r.IngestLatestFiling(ctx, "AAPL")
	require.NoError(t, err)
	assert.False(t, inserted, "second ingest must report no insert")

	assert.Len(t, store.rows, 1, "second ingest must not duplicate the row")
}

func TestIngestLatestFilingNoCIK(t *testing.T) {
	market := &fakeMarket{profiles: map[string]*contracts.CompanyProfile{}}
	r := newTestResolver(market, &fakeFilings{}, newMemCompanyRepo(), &memFilingRepo{})

	_, _, err := r.IngestLatestFiling(context.Background(), "XYZ")
	assert.Error(t, err)
}

func TestIngestLatestFilingNoneListed(t *testing.T) {
	market := &fakeMarket{profiles: map[string]*contracts.CompanyProfile{
		"NEWCO": {Name: "NewCo", CIK: "999999"},
	}}
	r := newTestResolver(market, &fakeFilings{}, newMemCompanyRepo(), &memFilingRepo{})

	_, _, err := r.IngestLatestFiling(context.Background(), "NEWCO")
	assert.ErrorIs(t, err, ErrNoFilings)
}

func TestProbeTagsOrder(t *testing.T) {
	facts := map[string]float64{
		"SalesRevenueNet": 50,
		"Revenues":        100,
	}
	v := probeTags(facts, revenueTags)
	require.NotNil(t, v)
	assert.Equal(t, 100.0, *v, "earlier tag in the fallback order wins")

	assert.Nil(t, probeTags(nil, revenueTags))
	assert.Nil(t, probeTags(map[string]float64{"Other": 1}, revenueTags))
}
