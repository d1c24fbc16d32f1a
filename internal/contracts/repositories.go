package contracts

import (
	"context"
	"time"
)

// CompanyRepository stores company metadata, at most one row per ticker.
type CompanyRepository interface {
	// Upsert inserts or updates the row keyed by ticker.
	Upsert(ctx context.Context, meta *CompanyMetadata) error

	// Get returns the row for ticker, or nil when absent.
	Get(ctx context.Context, ticker string) (*CompanyMetadata, error)
}

// FilingRepository stores quarterly filings, append-only, keyed by
// accession number.
type FilingRepository interface {
	// ExistsByAccession reports whether the filing is already stored.
	ExistsByAccession(ctx context.Context, accession string) (bool, error)

	// Insert stores a new filing row.
	Insert(ctx context.Context, filing *QuarterlyFiling) error

	// ListRecent returns up to limit filings for ticker, newest first.
	ListRecent(ctx context.Context, ticker string, limit int) ([]*QuarterlyFiling, error)
}

// ResultRepository stores timestamped screening results used as a cache.
type ResultRepository interface {
	// Save appends a result row.
	Save(ctx context.Context, result *ScreeningResult) error

	// GetFresh returns the most recent row for ticker with
	// cached_at > cutoff, or nil when none qualifies.
	GetFresh(ctx context.Context, ticker string, cutoff time.Time) (*ScreeningResult, error)

	// ListFresh returns the most recent row per ticker with
	// cached_at > cutoff, ordered by ticker.
	ListFresh(ctx context.Context, cutoff time.Time) ([]*ScreeningResult, error)

	// DeleteOlderThan prunes rows with cached_at < cutoff and returns the
	// number removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
