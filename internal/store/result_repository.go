package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oldlogancap/logan-screener/internal/contracts"
	"github.com/oldlogancap/logan-screener/pkg/database"
)

// ResultRepository persists timestamped screening results. Rows are
// append-only; the newest row per ticker is the cache entry.
type ResultRepository struct {
	db *database.DB
}

// NewResultRepository creates a result repository.
func NewResultRepository(db *database.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Save appends a result row.
func (r *ResultRepository) Save(ctx context.Context, result *contracts.ScreeningResult) error {
	query := `
		INSERT INTO screening_results
			(ticker, name, sector, industry,
			 earnings_growth, relative_strength, current_price, sma_50, above_sma,
			 trend_passed, volatility_20d, ownership_percent, operating_leverage,
			 story_passes, story_reason, cached_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.db.Pool.Exec(ctx, query,
		result.Ticker, result.Name, result.Sector, result.Industry,
		result.EarningsGrowth, result.RelativeStrength, result.CurrentPrice,
		result.SMA50, result.AboveSMA,
		result.TrendPassed, result.Volatility20D, result.OwnershipPercent,
		result.OperatingLeverage,
		result.StoryPasses, result.StoryReason, result.CachedAt)
	if err != nil {
		return fmt.Errorf("saving result for %s: %w", result.Ticker, err)
	}
	return nil
}

// GetFresh returns the newest row for ticker with cached_at > cutoff, or
// nil when none qualifies.
func (r *ResultRepository) GetFresh(ctx context.Context, ticker string, cutoff time.Time) (*contracts.ScreeningResult, error) {
	query := `
		SELECT ticker, name, sector, industry,
		       earnings_growth, relative_strength, current_price, sma_50, above_sma,
		       trend_passed, volatility_20d, ownership_percent, operating_leverage,
		       story_passes, story_reason, cached_at
		FROM screening_results
		WHERE ticker = $1 AND cached_at > $2
		ORDER BY cached_at DESC
		LIMIT 1
	`
	var res contracts.ScreeningResult
	err := r.db.Pool.QueryRow(ctx, query, ticker, cutoff).Scan(
		&res.Ticker, &res.Name, &res.Sector, &res.Industry,
		&res.EarningsGrowth, &res.RelativeStrength, &res.CurrentPrice,
		&res.SMA50, &res.AboveSMA,
		&res.TrendPassed, &res.Volatility20D, &res.OwnershipPercent,
		&res.OperatingLeverage,
		&res.StoryPasses, &res.StoryReason, &res.CachedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading fresh result for %s: %w", ticker, err)
	}
	return &res, nil
}

// ListFresh returns the newest row per ticker with cached_at > cutoff,
// ordered by ticker.
func (r *ResultRepository) ListFresh(ctx context.Context, cutoff time.Time) ([]*contracts.ScreeningResult, error) {
	query := `
		SELECT DISTINCT ON (ticker)
		       ticker, name, sector, industry,
		       earnings_growth, relative_strength, current_price, sma_50, above_sma,
		       trend_passed, volatility_20d, ownership_percent, operating_leverage,
		       story_passes, story_reason, cached_at
		FROM screening_results
		WHERE cached_at > $1
		ORDER BY ticker, cached_at DESC
	`
	rows, err := r.db.Pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("listing fresh results: %w", err)
	}
	defer rows.Close()

	var results []*contracts.ScreeningResult
	for rows.Next() {
		var res contracts.ScreeningResult
		if err := rows.Scan(
			&res.Ticker, &res.Name, &res.Sector, &res.Industry,
			&res.EarningsGrowth, &res.RelativeStrength, &res.CurrentPrice,
			&res.SMA50, &res.AboveSMA,
			&res.TrendPassed, &res.Volatility20D, &res.OwnershipPercent,
			&res.OperatingLeverage,
			&res.StoryPasses, &res.StoryReason, &res.CachedAt); err != nil {
			return nil, fmt.Errorf("scanning result row: %w", err)
		}
		results = append(results, &res)
	}
	return results, rows.Err()
}

// DeleteOlderThan prunes rows cached before the cutoff.
func (r *ResultRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM screening_results WHERE cached_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning results: %w", err)
	}
	return tag.RowsAffected(), nil
}
