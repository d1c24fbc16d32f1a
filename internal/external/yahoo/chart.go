package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/oldlogancap/logan-screener/internal/contracts"
	"github.com/oldlogancap/logan-screener/pkg/redis"
)

// chartResponse mirrors the v8 chart payload. Fields the parser does not
// need are omitted; numeric arrays use pointers because the API emits
// nulls for halted or missing sessions.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// DailyBars returns up to `days` calendar days of daily bars, oldest
// first. Sessions with a null close are dropped.
func (c *Client) DailyBars(ctx context.Context, ticker string, days int) ([]contracts.PriceBar, error) {
	if c.cache != nil {
		var cached []contracts.PriceBar
		if hit, err := c.cache.Get(ctx, redis.PriceHistoryKey(ticker, days), &cached); err == nil && hit {
			return cached, nil
		}
	}

	now := time.Now()
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s",
		c.baseURL, url.PathEscape(ticker),
		url.Values{
			"interval": {"1d"},
			"period1":  {fmt.Sprintf("%d", now.AddDate(0, 0, -days).Unix())},
			"period2":  {fmt.Sprintf("%d", now.Unix())},
		}.Encode())

	var parsed chartResponse
	if err := c.httpClient.GetJSON(ctx, endpoint, &parsed); err != nil {
		return nil, fmt.Errorf("fetching chart for %s: %w", ticker, err)
	}
	if parsed.Chart.Error != nil {
		return nil, fmt.Errorf("chart for %s: %s", ticker, parsed.Chart.Error.Description)
	}
	if len(parsed.Chart.Result) == 0 || len(parsed.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart for %s: empty result", ticker)
	}

	result := parsed.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	bars := make([]contracts.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bar := contracts.PriceBar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("chart for %s: no usable bars", ticker)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, redis.PriceHistoryKey(ticker, days), bars, redis.TTLLong); err != nil {
			c.logger.WithError(err).WithField("ticker", ticker).Warn("caching price history failed")
		}
	}
	return bars, nil
}
