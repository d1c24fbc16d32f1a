package yahoo

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"sort"
	"time"
)

// timeseriesResponse mirrors the fundamentals-timeseries payload.
type timeseriesResponse struct {
	Timeseries struct {
		Result []struct {
			Timestamp          []int64 `json:"timestamp"`
			QuarterlyNetIncome []*struct {
				ReportedValue *struct {
					Raw float64 `json:"raw"`
				} `json:"reportedValue"`
			} `json:"quarterlyNetIncome"`
		} `json:"result"`
	} `json:"timeseries"`
}

// QuarterlyNetIncome returns the quarterly net income series, most recent
// first. Quarters present in the timeline but without a reported value
// come back as NaN so callers can tell a gap from a zero.
func (c *Client) QuarterlyNetIncome(ctx context.Context, ticker string) ([]float64, error) {
	now := time.Now()
	endpoint := fmt.Sprintf("%s/ws/fundamentals-timeseries/v1/finance/timeseries/%s?%s",
		c.baseURL, url.PathEscape(ticker),
		url.Values{
			"type":    {"quarterlyNetIncome"},
			"period1": {fmt.Sprintf("%d", now.AddDate(-2, 0, 0).Unix())},
			"period2": {fmt.Sprintf("%d", now.Unix())},
		}.Encode())

	var parsed timeseriesResponse
	if err := c.httpClient.GetJSON(ctx, endpoint, &parsed); err != nil {
		return nil, fmt.Errorf("fetching net income for %s: %w", ticker, err)
	}
	if len(parsed.Timeseries.Result) == 0 {
		return nil, fmt.Errorf("net income for %s: empty result", ticker)
	}

	result := parsed.Timeseries.Result[0]

	type quarter struct {
		ts    int64
		value float64
	}
	quarters := make([]quarter, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		q := quarter{ts: ts, value: math.NaN()}
		if i < len(result.QuarterlyNetIncome) {
			if entry := result.QuarterlyNetIncome[i]; entry != nil && entry.ReportedValue != nil {
				q.value = entry.ReportedValue.Raw
			}
		}
		quarters = append(quarters, q)
	}
	if len(quarters) == 0 {
		return nil, fmt.Errorf("net income for %s: no quarters", ticker)
	}

	sort.Slice(quarters, func(i, j int) bool { return quarters[i].ts > quarters[j].ts })

	series := make([]float64, len(quarters))
	for i, q := range quarters {
		series[i] = q.value
	}
	return series, nil
}
