package store

import (
	"context"
	"fmt"

	"github.com/oldlogancap/logan-screener/pkg/database"
	"github.com/oldlogancap/logan-screener/pkg/logger"
)

// Schema is the full DDL. initdb runs it as one batch; every statement is
// idempotent so re-running is safe.
const Schema = `
CREATE TABLE IF NOT EXISTS companies (
    ticker        TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    cik           TEXT NOT NULL DEFAULT '',
    sector        TEXT NOT NULL DEFAULT '',
    industry      TEXT NOT NULL DEFAULT '',
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS quarterly_filings (
    id                    BIGSERIAL PRIMARY KEY,
    ticker                TEXT NOT NULL,
    form_type             TEXT NOT NULL,
    filing_date           DATE NOT NULL,
    accession_number      TEXT NOT NULL UNIQUE,
    revenue               DOUBLE PRECISION,
    net_income            DOUBLE PRECISION,
    total_assets          DOUBLE PRECISION,
    total_liabilities     DOUBLE PRECISION,
    management_discussion TEXT,
    created_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_filings_ticker_date
    ON quarterly_filings (ticker, filing_date DESC);

CREATE TABLE IF NOT EXISTS screening_results (
    id                 BIGSERIAL PRIMARY KEY,
    ticker             TEXT NOT NULL,
    name               TEXT NOT NULL DEFAULT '',
    sector             TEXT NOT NULL DEFAULT '',
    industry           TEXT NOT NULL DEFAULT '',
    earnings_growth    DOUBLE PRECISION,
    relative_strength  DOUBLE PRECISION,
    current_price      DOUBLE PRECISION,
    sma_50             DOUBLE PRECISION,
    above_sma          BOOLEAN,
    trend_passed       BOOLEAN,
    volatility_20d     DOUBLE PRECISION,
    ownership_percent  DOUBLE PRECISION,
    operating_leverage DOUBLE PRECISION,
    story_passes       BOOLEAN,
    story_reason       TEXT NOT NULL DEFAULT '',
    cached_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_results_ticker_cached
    ON screening_results (ticker, cached_at DESC);
`

// InitSchema creates all tables and indexes.
func InitSchema(ctx context.Context, db *database.DB, log *logger.Logger) error {
	if _, err := db.Pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	log.Info("database schema applied")
	return nil
}
