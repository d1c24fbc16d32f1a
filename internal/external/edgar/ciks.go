package edgar

import (
	"context"
	"fmt"
	"strings"

	"github.com/oldlogancap/logan-screener/internal/contracts"
)

// tickerEntry is one row of the company_tickers.json map.
type tickerEntry struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// ResolveCIK maps a ticker to its zero-padded 10-digit CIK. The full
// ticker map is fetched once per client and reused.
func (c *Client) ResolveCIK(ctx context.Context, ticker string) (string, error) {
	c.tickerOnce.Do(func() {
		c.tickerMap, c.tickerErr = c.fetchTickerMap(ctx)
	})
	if c.tickerErr != nil {
		return "", fmt.Errorf("loading ticker map: %w", c.tickerErr)
	}

	cik, ok := c.tickerMap[strings.ToUpper(ticker)]
	if !ok {
		return "", fmt.Errorf("ticker %s not found in registry", ticker)
	}
	return contracts.PadCIK(cik), nil
}

func (c *Client) fetchTickerMap(ctx context.Context) (map[string]string, error) {
	// Keyed by arbitrary numeric strings, not by ticker.
	var raw map[string]tickerEntry
	url := c.archivesURL + "/files/company_tickers.json"
	if err := c.httpClient.GetJSON(ctx, url, &raw); err != nil {
		return nil, err
	}

	m := make(map[string]string, len(raw))
	for _, entry := range raw {
		if entry.Ticker == "" {
			continue
		}
		m[strings.ToUpper(entry.Ticker)] = fmt.Sprintf("%d", entry.CIK)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("ticker map is empty")
	}
	c.logger.WithField("tickers", len(m)).Debug("company ticker map loaded")
	return m, nil
}
