package screener

import (
	"github.com/oldlogancap/logan-screener/internal/contracts"
	"github.com/oldlogancap/logan-screener/pkg/config"
)

// Filter names reported for failing tickers.
const (
	FilterEarningsGrowth   = "earnings_growth"
	FilterRelativeStrength = "relative_strength"
	FilterSMATrend         = "sma_trend"
	FilterTrendTemplate    = "trend_template"
	FilterVolatility       = "volatility"
	FilterSponsorship      = "institutional_sponsorship"
	FilterStory            = "story"
)

// Gate applies the profile's pass/fail criteria to one ticker's outcome.
// Criteria compose with AND; an unavailable metric fails its criterion.
// The story verdict is the exception: it fails open upstream, so by the
// time it reaches the gate it always holds a decision.
type Gate struct {
	screen config.ScreenConfig
}

// NewGate creates a gate for the configured profile.
func NewGate(screen config.ScreenConfig) *Gate {
	return &Gate{screen: screen}
}

// FailingFilter returns the name of the first criterion the outcome fails,
// or "" when the ticker passes the screen.
func (g *Gate) FailingFilter(o *contracts.CriterionOutcome) string {
	if eg, ok := o.EarningsGrowth.Get(); !ok || eg <= g.screen.EarningsGrowthThreshold {
		return FilterEarningsGrowth
	}
	if rs, ok := o.RelativeStrength.Get(); !ok || rs <= g.screen.RelativeStrengthThreshold {
		return FilterRelativeStrength
	}

	if g.screen.Profile == config.ProfileClassic {
		if above, ok := o.AboveSMA.Get(); !ok || !above {
			return FilterSMATrend
		}
		return ""
	}

	// Professional profile: the trend template replaces the single-average
	// check, and the accumulation, sponsorship and story criteria apply.
	if o.Trend == nil || !o.Trend.Passed {
		return FilterTrendTemplate
	}
	if vol, ok := o.Volatility20D.Get(); !ok || vol >= g.screen.MaxVolatility20D {
		return FilterVolatility
	}
	if own, ok := o.OwnershipPercent.Get(); !ok || own < g.screen.MinInstitutionalOwnership {
		return FilterSponsorship
	}
	if !o.Story.Passes {
		return FilterStory
	}
	return ""
}
