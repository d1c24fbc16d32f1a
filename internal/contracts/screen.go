package contracts

import "time"

// TrendDetails carries the Professional Trend Template sub-checks plus raw
// percentages for diagnostics. Passed is true only when every sub-check is.
type TrendDetails struct {
	Passed bool `json:"passed"`

	PriceAboveSMA150  bool `json:"price_above_sma150"`
	PriceAboveSMA200  bool `json:"price_above_sma200"`
	SMA150AboveSMA200 bool `json:"sma150_above_sma200"`
	SMA200Rising      bool `json:"sma200_rising"`
	NearHigh          bool `json:"near_high"`  // within 25% of 52-week high
	OffLow            bool `json:"off_low"`    // at least 30% above 52-week low

	CurrentPrice float64 `json:"current_price"`
	SMA150       float64 `json:"sma150"`
	SMA200       float64 `json:"sma200"`
	PctFromHigh  float64 `json:"pct_from_high"` // negative = below high
	PctFromLow   float64 `json:"pct_from_low"`
}

// StoryVerdict is the qualitative filter outcome. The filter fails open, so
// Passes=true with an "unavailable" reason is a normal verdict.
type StoryVerdict struct {
	Passes bool   `json:"passes"`
	Reason string `json:"reason"`
}

// CriterionOutcome is the ephemeral per-ticker bundle computed during one
// screening pass. It is not persisted as-is; the overlapping fields go into
// the ScreeningResult cache row.
type CriterionOutcome struct {
	Ticker string

	EarningsGrowth    Metric[float64]
	RelativeStrength  Metric[float64]
	CurrentPrice      Metric[float64]
	SMA50             Metric[float64]
	AboveSMA          Metric[bool]
	Trend             *TrendDetails // nil when history was insufficient
	Volatility20D     Metric[float64]
	OwnershipPercent  Metric[float64]
	OperatingLeverage Metric[float64]
	Story             StoryVerdict

	Metadata *CompanyMetadata
}

// ScreeningResult is the timestamped cache row for one ticker's metrics.
// Rows are append-only; newer rows supersede older ones by CachedAt.
type ScreeningResult struct {
	Ticker            string    `json:"ticker"`
	Name              string    `json:"name"`
	Sector            string    `json:"sector,omitempty"`
	Industry          string    `json:"industry,omitempty"`
	EarningsGrowth    *float64  `json:"earnings_growth,omitempty"`
	RelativeStrength  *float64  `json:"relative_strength,omitempty"`
	CurrentPrice      *float64  `json:"current_price,omitempty"`
	SMA50             *float64  `json:"sma_50,omitempty"`
	AboveSMA          *bool     `json:"above_sma,omitempty"`
	TrendPassed       *bool     `json:"trend_passed,omitempty"`
	Volatility20D     *float64  `json:"volatility_20d,omitempty"`
	OwnershipPercent  *float64  `json:"ownership_percent,omitempty"`
	OperatingLeverage *float64  `json:"operating_leverage,omitempty"`
	StoryPasses       *bool     `json:"story_passes,omitempty"`
	StoryReason       string    `json:"story_reason,omitempty"`
	CachedAt          time.Time `json:"cached_at"`
}

// Fresh reports whether the row is usable at evaluation time now given the
// configured max age. A row exactly at the boundary is stale.
func (r *ScreeningResult) Fresh(now time.Time, maxAge time.Duration) bool {
	return now.Sub(r.CachedAt) < maxAge
}

// ResultRow is one passing ticker in the ranked output.
type ResultRow struct {
	Rank              int      `json:"rank"`
	Ticker            string   `json:"ticker"`
	Company           string   `json:"company"`
	Sector            string   `json:"sector,omitempty"`
	Industry          string   `json:"industry,omitempty"`
	EarningsGrowthPct *float64 `json:"earnings_growth_pct,omitempty"`
	RelativeStrength  *float64 `json:"relative_strength,omitempty"`
	Price             *float64 `json:"price,omitempty"`
	SMA50             *float64 `json:"sma_50,omitempty"`
	OperatingLeverage *float64 `json:"operating_leverage,omitempty"`
	StoryReason       string   `json:"story_reason,omitempty"`
}
