package contracts

import (
	"fmt"
	"time"
)

// CompanyMetadata holds resolved company identity fields.
// Resolution is best-effort: sector/industry may be empty, and a degraded
// record (name = ticker, empty CIK) is valid output.
type CompanyMetadata struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	CIK      string `json:"cik"` // zero-padded to 10 digits when known
	Sector   string `json:"sector,omitempty"`
	Industry string `json:"industry,omitempty"`
}

// Degraded reports whether this is a fallback record produced after a
// failed resolution.
func (m *CompanyMetadata) Degraded() bool {
	return m.CIK == "" && m.Name == m.Ticker
}

// PadCIK zero-pads a CIK to the canonical 10-digit form.
func PadCIK(cik string) string {
	if cik == "" {
		return ""
	}
	return fmt.Sprintf("%010s", cik)
}

// QuarterlyFiling is one extracted quarterly filing.
// AccessionNumber is globally unique and is the idempotency key for storage.
type QuarterlyFiling struct {
	Ticker               string    `json:"ticker"`
	FormType             string    `json:"form_type"`
	FilingDate           time.Time `json:"filing_date"`
	AccessionNumber      string    `json:"accession_number"`
	Revenue              *float64  `json:"revenue,omitempty"`
	NetIncome            *float64  `json:"net_income,omitempty"`
	TotalAssets          *float64  `json:"total_assets,omitempty"`
	TotalLiabilities     *float64  `json:"total_liabilities,omitempty"`
	ManagementDiscussion *string   `json:"management_discussion,omitempty"`
}

// HasCoreFinancials reports whether revenue and net income were both
// extracted; operating leverage needs two such filings.
func (f *QuarterlyFiling) HasCoreFinancials() bool {
	return f.Revenue != nil && f.NetIncome != nil
}
