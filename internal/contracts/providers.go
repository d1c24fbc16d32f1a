package contracts

import (
	"context"
	"time"
)

// PriceBar is one daily OHLCV bar, oldest-first in returned series.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// CompanyProfile is the raw provider-side company record. Ownership-style
// percentage fields vary by upstream taxonomy, so they are exposed as a map
// probed by ordered candidate keys.
type CompanyProfile struct {
	Name      string             `json:"name"`
	Sector    string             `json:"sector"`
	Industry  string             `json:"industry"`
	CIK       string             `json:"cik,omitempty"`
	MarketCap float64            `json:"market_cap,omitempty"`
	Fields    map[string]float64 `json:"fields,omitempty"`
}

// MarketDataProvider is the upstream price/fundamentals source.
// Implementations may fail transiently; callers wrap in retry.
type MarketDataProvider interface {
	// DailyBars returns up to `days` calendar days of daily bars,
	// oldest-first.
	DailyBars(ctx context.Context, ticker string, days int) ([]PriceBar, error)

	// QuarterlyNetIncome returns the quarterly net income series,
	// most-recent-first. Missing quarters are NaN.
	QuarterlyNetIncome(ctx context.Context, ticker string) ([]float64, error)

	// Profile returns company profile fields.
	Profile(ctx context.Context, ticker string) (*CompanyProfile, error)

	// Headlines returns up to limit recent news headlines for the ticker.
	Headlines(ctx context.Context, ticker string, limit int) ([]string, error)
}

// FilingRef identifies one regulatory filing.
type FilingRef struct {
	FormType        string    `json:"form_type"`
	FilingDate      time.Time `json:"filing_date"`
	AccessionNumber string    `json:"accession_number"`
	PrimaryDocument string    `json:"primary_document,omitempty"`
}

// StatementFacts holds structured line items keyed by upstream tag name.
// Taxonomies drift, so extraction probes ordered candidate tags.
type StatementFacts struct {
	IncomeStatement map[string]float64 `json:"income_statement"`
	BalanceSheet    map[string]float64 `json:"balance_sheet"`
}

// FilingsProvider is the regulatory filings source (SEC EDGAR shaped).
type FilingsProvider interface {
	// ResolveCIK maps a ticker to its zero-padded 10-digit CIK.
	ResolveCIK(ctx context.Context, ticker string) (string, error)

	// RecentFilings lists filings of the given form type,
	// most-recent-first.
	RecentFilings(ctx context.Context, cik, formType string, limit int) ([]FilingRef, error)

	// FilingFacts returns structured statement line items for a filing
	// period.
	FilingFacts(ctx context.Context, cik string, ref FilingRef) (*StatementFacts, error)

	// FilingDocument returns the raw primary document text.
	FilingDocument(ctx context.Context, cik string, ref FilingRef) (string, error)
}

// ChatMessage is one turn of an AI conversation.
type ChatMessage struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// ChatProvider is the AI inference backend. Given a system prompt and
// conversation, return text; the qualitative filter and the analyst chat
// both sit on top of this.
type ChatProvider interface {
	// Configured reports whether the backend can be called at all.
	Configured() bool

	// Complete returns the assistant response for the conversation.
	Complete(ctx context.Context, system string, messages []ChatMessage) (string, error)
}

// ConstituentSource produces candidate tickers for an index selection.
type ConstituentSource interface {
	Constituents(ctx context.Context, index string) ([]string, error)
	Indices() []string
}
