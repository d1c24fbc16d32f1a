package yahoo

import (
	"github.com/oldlogancap/logan-screener/pkg/config"
	"github.com/oldlogancap/logan-screener/pkg/httputil"
	"github.com/oldlogancap/logan-screener/pkg/logger"
	"github.com/oldlogancap/logan-screener/pkg/redis"
)

// browserUserAgent avoids the bot blocking on the public finance endpoints.
const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Client fetches prices, fundamentals, profiles and headlines from the
// public Yahoo Finance endpoints. It implements contracts.MarketDataProvider.
type Client struct {
	httpClient *httputil.Client
	baseURL    string
	cache      *redis.Cache
	logger     *logger.Logger
}

// NewClient creates a Yahoo Finance client.
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		httpClient: httputil.New(cfg, log).WithUserAgent(browserUserAgent),
		baseURL:    cfg.Yahoo.BaseURL,
		logger:     log,
	}
}

// WithCache enables short-lived response caching, mainly to avoid
// refetching the benchmark series for every ticker in a run.
func (c *Client) WithCache(cache *redis.Cache) *Client {
	c.cache = cache
	return c
}
