package resolver

import (
	"context"

	"github.com/oldlogancap/logan-screener/internal/contracts"
	"github.com/oldlogancap/logan-screener/pkg/logger"
	"github.com/oldlogancap/logan-screener/pkg/retry"
)

// Resolver turns tickers into company records and ingests their quarterly
// filings. Resolution is best-effort: a ticker that cannot be resolved
// anywhere still yields a degraded record rather than an error.
type Resolver struct {
	market    contracts.MarketDataProvider
	filings   contracts.FilingsProvider
	companies contracts.CompanyRepository
	store     contracts.FilingRepository
	retry     retry.Policy
	logger    *logger.Logger
}

// New creates a resolver.
func New(
	market contracts.MarketDataProvider,
	filings contracts.FilingsProvider,
	companies contracts.CompanyRepository,
	store contracts.FilingRepository,
	retryPolicy retry.Policy,
	log *logger.Logger,
) *Resolver {
	return &Resolver{
		market:    market,
		filings:   filings,
		companies: companies,
		store:     store,
		retry:     retryPolicy,
		logger:    log,
	}
}

// ResolveCompany returns metadata for a ticker, consulting the local store
// first, then the market profile, then the regulator's ticker map for the
// CIK. The resolved record is persisted for next time.
func (r *Resolver) ResolveCompany(ctx context.Context, ticker string) *contracts.CompanyMetadata {
	if r.companies != nil {
		if cached, err := r.companies.Get(ctx, ticker); err == nil && cached != nil && !cached.Degraded() {
			return cached
		}
	}

	meta := &contracts.CompanyMetadata{Ticker: ticker, Name: ticker}

	profile, err := retry.Do(ctx, r.retry, func(ctx context.Context) (*contracts.CompanyProfile, error) {
		return r.market.Profile(ctx, ticker)
	})
	if err != nil {
		r.logger.WithError(err).WithField("ticker", ticker).
			Warn("company resolution: profile fetch failed")
	} else if profile != nil {
		if profile.Name != "" {
			meta.Name = profile.Name
		}
		meta.Sector = profile.Sector
		meta.Industry = profile.Industry
		meta.CIK = contracts.PadCIK(profile.CIK)
	}

	if meta.CIK == "" && r.filings != nil {
		cik, err := retry.Do(ctx, r.retry, func(ctx context.Context) (string, error) {
			return r.filings.ResolveCIK(ctx, ticker)
		})
		if err != nil {
			r.logger.WithError(err).WithField("ticker", ticker).
				Warn("company resolution: cik lookup failed")
		} else {
			meta.CIK = contracts.PadCIK(cik)
		}
	}

	if r.companies != nil {
		if err := r.companies.Upsert(ctx, meta); err != nil {
			r.logger.WithError(err).WithField("ticker", ticker).
				Warn("company resolution: persist failed")
		}
	}
	return meta
}
