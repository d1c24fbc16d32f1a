package edgar

import (
	"sync"
	"time"

	"github.com/oldlogancap/logan-screener/pkg/config"
	"github.com/oldlogancap/logan-screener/pkg/httputil"
	"github.com/oldlogancap/logan-screener/pkg/logger"
	"github.com/oldlogancap/logan-screener/pkg/redis"
)

// archivesBaseURL hosts the ticker map and raw filing documents; the
// structured APIs live on the data host from config.
const archivesBaseURL = "https://www.sec.gov"

// Client fetches company identifiers, filing indexes, XBRL facts and raw
// documents from SEC EDGAR. It implements contracts.FilingsProvider.
//
// The SEC requires a descriptive User-Agent with a contact address and
// throttles aggressively without one.
type Client struct {
	httpClient  *httputil.Client
	baseURL     string
	archivesURL string
	logger      *logger.Logger

	tickerOnce sync.Once
	tickerMap  map[string]string // upper ticker -> raw CIK
	tickerErr  error
}

// NewClient creates an EDGAR client.
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		httpClient: httputil.NewWithTimeout(cfg, log, 60*time.Second).
			WithUserAgent(cfg.EDGAR.UserAgent),
		baseURL:     cfg.EDGAR.BaseURL,
		archivesURL: archivesBaseURL,
		logger:      log,
	}
}

// WithRateLimiter throttles requests through a shared limiter. The SEC
// allows 10 requests per second per identity across all processes.
func (c *Client) WithRateLimiter(limiter *redis.RateLimiter) *Client {
	c.httpClient.WithRateLimiter(limiter, redis.RateLimitConfig{
		Key:    "edgar",
		Limit:  10,
		Window: time.Second,
	})
	return c
}
