package metrics

import (
	"context"

	"github.com/oldlogancap/logan-screener/internal/contracts"
	"github.com/oldlogancap/logan-screener/pkg/retry"
)

// ownershipFieldNames are probed in order against the provider profile.
// Upstream taxonomies disagree on the field name and on whether the value
// is a fraction or a percentage.
var ownershipFieldNames = []string{
	"heldPercentInstitutions",
	"institutionsPercentHeld",
	"institutionalOwnership",
	"percentInstitutions",
}

// InstitutionalSponsorship reports whether institutional ownership meets
// the configured floor, along with the ownership percentage when known.
// An unknown percentage fails the check.
func (p *Provider) InstitutionalSponsorship(ctx context.Context, ticker string) (bool, contracts.Metric[float64]) {
	profile, err := retry.Do(ctx, p.retry, func(ctx context.Context) (*contracts.CompanyProfile, error) {
		return p.market.Profile(ctx, ticker)
	})
	if err != nil {
		p.logger.WithError(err).WithField("ticker", ticker).
			Warn("institutional sponsorship: profile fetch failed")
		return false, contracts.Unavailable[float64]()
	}

	pct := OwnershipPercent(profile)
	v, ok := pct.Get()
	return ok && v >= p.screen.MinInstitutionalOwnership, pct
}

// OwnershipPercent extracts institutional ownership from a profile as a
// percentage. Values strictly below 1.0 are treated as fractions and
// scaled; exactly 1.0 is taken as an already-expressed 1%.
func OwnershipPercent(profile *contracts.CompanyProfile) contracts.Metric[float64] {
	if profile == nil || profile.Fields == nil {
		return contracts.Unavailable[float64]()
	}
	for _, name := range ownershipFieldNames {
		v, ok := profile.Fields[name]
		if !ok || v < 0 {
			continue
		}
		if v < 1.0 {
			v *= 100
		}
		return contracts.MetricValue(v)
	}
	return contracts.Unavailable[float64]()
}
