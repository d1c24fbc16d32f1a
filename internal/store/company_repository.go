package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oldlogancap/logan-screener/internal/contracts"
	"github.com/oldlogancap/logan-screener/pkg/database"
)

// CompanyRepository persists company metadata, one row per ticker.
type CompanyRepository struct {
	db *database.DB
}

// NewCompanyRepository creates a company repository.
func NewCompanyRepository(db *database.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// Upsert inserts or replaces the row for the ticker.
func (r *CompanyRepository) Upsert(ctx context.Context, meta *contracts.CompanyMetadata) error {
	query := `
		INSERT INTO companies (ticker, name, cik, sector, industry, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (ticker) DO UPDATE SET
			name = EXCLUDED.name,
			cik = EXCLUDED.cik,
			sector = EXCLUDED.sector,
			industry = EXCLUDED.industry,
			updated_at = now()
	`
	_, err := r.db.Pool.Exec(ctx, query,
		meta.Ticker, meta.Name, meta.CIK, meta.Sector, meta.Industry)
	if err != nil {
		return fmt.Errorf("upserting company %s: %w", meta.Ticker, err)
	}
	return nil
}

// Get returns the row for ticker, or nil when absent.
func (r *CompanyRepository) Get(ctx context.Context, ticker string) (*contracts.CompanyMetadata, error) {
	query := `
		SELECT ticker, name, cik, sector, industry
		FROM companies
		WHERE ticker = $1
	`
	var meta contracts.CompanyMetadata
	err := r.db.Pool.QueryRow(ctx, query, ticker).Scan(
		&meta.Ticker, &meta.Name, &meta.CIK, &meta.Sector, &meta.Industry)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading company %s: %w", ticker, err)
	}
	return &meta, nil
}
