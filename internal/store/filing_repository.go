package store

import (
	"context"
	"fmt"

	"github.com/oldlogancap/logan-screener/internal/contracts"
	"github.com/oldlogancap/logan-screener/pkg/database"
)

// FilingRepository persists extracted quarterly filings, append-only,
// unique on accession number.
type FilingRepository struct {
	db *database.DB
}

// NewFilingRepository creates a filing repository.
func NewFilingRepository(db *database.DB) *FilingRepository {
	return &FilingRepository{db: db}
}

// ExistsByAccession reports whether a filing is already stored.
func (r *FilingRepository) ExistsByAccession(ctx context.Context, accession string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM quarterly_filings WHERE accession_number = $1)`,
		accession).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking accession %s: %w", accession, err)
	}
	return exists, nil
}

// Insert stores a new filing. ON CONFLICT DO NOTHING keeps concurrent
// ingests of the same accession from failing.
func (r *FilingRepository) Insert(ctx context.Context, filing *contracts.QuarterlyFiling) error {
	query := `
		INSERT INTO quarterly_filings
			(ticker, form_type, filing_date, accession_number,
			 revenue, net_income, total_assets, total_liabilities,
			 management_discussion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (accession_number) DO NOTHING
	`
	_, err := r.db.Pool.Exec(ctx, query,
		filing.Ticker, filing.FormType, filing.FilingDate, filing.AccessionNumber,
		filing.Revenue, filing.NetIncome, filing.TotalAssets, filing.TotalLiabilities,
		filing.ManagementDiscussion)
	if err != nil {
		return fmt.Errorf("inserting filing %s: %w", filing.AccessionNumber, err)
	}
	return nil
}

// ListRecent returns up to limit filings for a ticker, newest first.
func (r *FilingRepository) ListRecent(ctx context.Context, ticker string, limit int) ([]*contracts.QuarterlyFiling, error) {
	query := `
		SELECT ticker, form_type, filing_date, accession_number,
		       revenue, net_income, total_assets, total_liabilities,
		       management_discussion
		FROM quarterly_filings
		WHERE ticker = $1
		ORDER BY filing_date DESC
		LIMIT $2
	`
	rows, err := r.db.Pool.Query(ctx, query, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("listing filings for %s: %w", ticker, err)
	}
	defer rows.Close()

	var filings []*contracts.QuarterlyFiling
	for rows.Next() {
		var f contracts.QuarterlyFiling
		if err := rows.Scan(
			&f.Ticker, &f.FormType, &f.FilingDate, &f.AccessionNumber,
			&f.Revenue, &f.NetIncome, &f.TotalAssets, &f.TotalLiabilities,
			&f.ManagementDiscussion); err != nil {
			return nil, fmt.Errorf("scanning filing row: %w", err)
		}
		filings = append(filings, &f)
	}
	return filings, rows.Err()
}
