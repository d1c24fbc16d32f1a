package scheduler

import (
	"context"
	"fmt"

	"github.com/oldlogancap/logan-screener/internal/screener"
	"github.com/oldlogancap/logan-screener/internal/universe"
	"github.com/oldlogancap/logan-screener/pkg/logger"
)

// Default schedules: refresh after the US close settles, prune afterwards.
const (
	nightlyRefreshSpec = "0 2 * * *"
	cachePruneSpec     = "30 3 * * *"
)

// NightlyRefreshJob rebuilds the default universe and re-screens it,
// repopulating the result cache while markets are closed.
func NightlyRefreshJob(engine *screener.Engine, builder *universe.Builder, index string, log *logger.Logger) Job {
	return Job{
		Name: "nightly-refresh",
		Spec: nightlyRefreshSpec,
		Run: func(ctx context.Context) error {
			report, err := builder.Build(ctx, index, 0)
			if err != nil {
				return fmt.Errorf("building universe: %w", err)
			}

			result, err := engine.Screen(ctx, report.Included)
			if err != nil {
				return fmt.Errorf("screening universe: %w", err)
			}

			log.WithFields(map[string]interface{}{
				"index":    index,
				"screened": result.Screened,
				"passed":   len(result.Passed),
			}).Info("nightly refresh complete")
			return nil
		},
	}
}

// CachePruneJob deletes screening results older than the retention window.
func CachePruneJob(engine *screener.Engine) Job {
	return Job{
		Name: "cache-prune",
		Spec: cachePruneSpec,
		Run: func(ctx context.Context) error {
			_, err := engine.Prune(ctx)
			return err
		},
	}
}

// DefaultJobs returns the standard production schedule over the S&P 500
// universe.
func DefaultJobs(engine *screener.Engine, builder *universe.Builder, log *logger.Logger) []Job {
	return []Job{
		NightlyRefreshJob(engine, builder, "sp500", log),
		CachePruneJob(engine),
	}
}
