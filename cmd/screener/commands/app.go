package commands

import (
	"fmt"

	"github.com/oldlogancap/logan-screener/internal/contracts"
	"github.com/oldlogancap/logan-screener/internal/external/edgar"
	"github.com/oldlogancap/logan-screener/internal/external/openai"
	"github.com/oldlogancap/logan-screener/internal/external/wikipedia"
	"github.com/oldlogancap/logan-screener/internal/external/yahoo"
	"github.com/oldlogancap/logan-screener/internal/metrics"
	"github.com/oldlogancap/logan-screener/internal/resolver"
	"github.com/oldlogancap/logan-screener/internal/screener"
	"github.com/oldlogancap/logan-screener/internal/store"
	"github.com/oldlogancap/logan-screener/internal/story"
	"github.com/oldlogancap/logan-screener/internal/universe"
	"github.com/oldlogancap/logan-screener/pkg/config"
	"github.com/oldlogancap/logan-screener/pkg/database"
	"github.com/oldlogancap/logan-screener/pkg/logger"
	"github.com/oldlogancap/logan-screener/pkg/redis"
	"github.com/oldlogancap/logan-screener/pkg/retry"
)

// cachePrefix namespaces every Redis key the screener writes.
const cachePrefix = "screener"

// app holds the wired application graph. Commands build it once on
// startup; parts that need a database stay nil when none is configured.
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	db    *database.DB
	redis *redis.Client

	market *yahoo.Client
	edgar  *edgar.Client
	chat   *openai.Client

	companies contracts.CompanyRepository
	filings   contracts.FilingRepository
	results   contracts.ResultRepository

	resolver *resolver.Resolver
	engine   *screener.Engine
	builder  *universe.Builder
}

// newApp loads configuration and wires the dependency graph. requireDB
// makes a missing DATABASE_URL fatal; otherwise the app runs degraded
// with no persistence or caching.
func newApp(requireDB bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg)

	a := &app{cfg: cfg, log: log}

	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	a.redis = redisClient

	a.market = yahoo.NewClient(cfg, log)
	a.edgar = edgar.NewClient(cfg, log)
	a.chat = openai.NewClient(cfg, log)
	if redisClient.Enabled() {
		a.market.WithCache(redis.NewCache(redisClient, cachePrefix))
		a.edgar.WithRateLimiter(redis.NewRateLimiter(redisClient, cachePrefix))
	}

	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		a.db = db
		a.companies = store.NewCompanyRepository(db)
		a.filings = store.NewFilingRepository(db)
		a.results = store.NewResultRepository(db)
	} else if requireDB {
		return nil, fmt.Errorf("DATABASE_URL is required for this command")
	} else {
		log.Warn("no DATABASE_URL set, running without persistence or caching")
	}

	policy := retry.Policy{MaxAttempts: cfg.Retry.MaxAttempts, BaseDelay: cfg.Retry.BaseDelay}

	a.resolver = resolver.New(a.market, a.edgar, a.companies, a.filings, policy, log)
	metricProvider := metrics.NewProvider(a.market, a.filings, policy, cfg.Screen, log)
	storyAnalyzer := story.NewAnalyzer(a.chat, a.market, log)
	a.engine = screener.NewEngine(metricProvider, storyAnalyzer, a.resolver, a.results, cfg.Screen, log)
	a.builder = universe.NewBuilder(wikipedia.NewSource(cfg, log), a.market, policy, log)

	return a, nil
}

// close releases held resources.
func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.WithError(err).Warn("closing redis")
		}
	}
}
