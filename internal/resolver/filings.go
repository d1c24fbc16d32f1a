package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/oldlogancap/logan-screener/internal/contracts"
	"github.com/oldlogancap/logan-screener/pkg/retry"
)

// ErrNoFilings is returned when the regulator lists no quarterly filings
// for the company.
var ErrNoFilings = errors.New("no quarterly filings found")

// Ordered tag fallbacks for statement line items. Filers disagree on which
// taxonomy tag carries each concept, so each list is probed front to back.
var (
	revenueTags = []string{
		"Revenues",
		"Revenue",
		"RevenueFromContractWithCustomerExcludingAssessedTax",
		"SalesRevenueNet",
		"TotalRevenue",
		"RevenueNet",
	}
	netIncomeTags = []string{
		"NetIncomeLoss",
		"NetIncome",
		"ProfitLoss",
		"NetIncomeLossAvailableToCommonStockholdersBasic",
	}
	assetTags = []string{
		"Assets",
		"TotalAssets",
		"AssetsCurrent",
	}
	liabilityTags = []string{
		"Liabilities",
		"TotalLiabilities",
		"LiabilitiesAndStockholdersEquity",
		"LiabilitiesCurrent",
	}
)

// IngestLatestFiling fetches, extracts, and persists the most recent 10-Q
// for a ticker. Ingestion is idempotent on accession number: a filing seen
// before is returned from the store without refetching. The bool reports
// whether a new row was inserted.
func (r *Resolver) IngestLatestFiling(ctx context.Context, ticker string) (*contracts.QuarterlyFiling, bool, error) {
	meta := r.ResolveCompany(ctx, ticker)
	if meta.CIK == "" {
		return nil, false, fmt.Errorf("ticker %s: no CIK could be resolved", ticker)
	}

	refs, err := retry.Do(ctx, r.retry, func(ctx context.Context) ([]contracts.FilingRef, error) {
		return r.filings.RecentFilings(ctx, meta.CIK, "10-Q", 1)
	})
	if err != nil {
		return nil, false, fmt.Errorf("ticker %s: listing filings: %w", ticker, err)
	}
	if len(refs) == 0 {
		return nil, false, fmt.Errorf("ticker %s: %w", ticker, ErrNoFilings)
	}
	ref := refs[0]

	exists, err := r.store.ExistsByAccession(ctx, ref.AccessionNumber)
	if err != nil {
		return nil, false, fmt.Errorf("ticker %s: accession lookup: %w", ticker, err)
	}
	if exists {
		stored, err := r.store.ListRecent(ctx, ticker, 1)
		if err == nil && len(stored) > 0 && stored[0].AccessionNumber == ref.AccessionNumber {
			return stored[0], false, nil
		}
		// Stored under another ticker alias or not first in order; rebuild
		// without inserting.
		filing, err := r.extractFiling(ctx, ticker, meta.CIK, ref)
		return filing, false, err
	}

	filing, err := r.extractFiling(ctx, ticker, meta.CIK, ref)
	if err != nil {
		return nil, false, err
	}

	if err := r.store.Insert(ctx, filing); err != nil {
		return nil, false, fmt.Errorf("ticker %s: persisting filing %s: %w", ticker, ref.AccessionNumber, err)
	}
	return filing, true, nil
}

// extractFiling pulls structured facts and the narrative section for one
// filing. Missing line items stay nil; a missing narrative is not an error.
func (r *Resolver) extractFiling(ctx context.Context, ticker, cik string, ref contracts.FilingRef) (*contracts.QuarterlyFiling, error) {
	facts, err := retry.Do(ctx, r.retry, func(ctx context.Context) (*contracts.StatementFacts, error) {
		return r.filings.FilingFacts(ctx, cik, ref)
	})
	if err != nil {
		return nil, fmt.Errorf("ticker %s: filing facts for %s: %w", ticker, ref.AccessionNumber, err)
	}

	filing := &contracts.QuarterlyFiling{
		Ticker:          ticker,
		FormType:        ref.FormType,
		FilingDate:      ref.FilingDate,
		AccessionNumber: ref.AccessionNumber,
	}
	if facts != nil {
		filing.Revenue = probeTags(facts.IncomeStatement, revenueTags)
		filing.NetIncome = probeTags(facts.IncomeStatement, netIncomeTags)
		filing.TotalAssets = probeTags(facts.BalanceSheet, assetTags)
		filing.TotalLiabilities = probeTags(facts.BalanceSheet, liabilityTags)
	}

	doc, err := retry.Do(ctx, r.retry, func(ctx context.Context) (string, error) {
		return r.filings.FilingDocument(ctx, cik, ref)
	})
	if err != nil {
		r.logger.WithError(err).WithField("ticker", ticker).
			WithField("accession", ref.AccessionNumber).
			Warn("filing ingest: document fetch failed, skipping narrative")
	} else if mdna := ExtractMDNA(doc); mdna != "" {
		filing.ManagementDiscussion = &mdna
	}

	return filing, nil
}

// probeTags returns the first tag present in the map, or nil.
func probeTags(facts map[string]float64, tags []string) *float64 {
	if facts == nil {
		return nil
	}
	for _, tag := range tags {
		if v, ok := facts[tag]; ok {
			return &v
		}
	}
	return nil
}
