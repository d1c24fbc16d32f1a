package yahoo

import (
	"context"
	"fmt"
	"net/url"
)

type searchResponse struct {
	News []struct {
		Title     string `json:"title"`
		Publisher string `json:"publisher"`
	} `json:"news"`
}

// Headlines returns up to limit recent news headlines for the ticker.
func (c *Client) Headlines(ctx context.Context, ticker string, limit int) ([]string, error) {
	endpoint := fmt.Sprintf("%s/v1/finance/search?%s",
		c.baseURL,
		url.Values{
			"q":           {ticker},
			"newsCount":   {fmt.Sprintf("%d", limit)},
			"quotesCount": {"0"},
		}.Encode())

	var parsed searchResponse
	if err := c.httpClient.GetJSON(ctx, endpoint, &parsed); err != nil {
		return nil, fmt.Errorf("fetching news for %s: %w", ticker, err)
	}

	headlines := make([]string, 0, len(parsed.News))
	for _, item := range parsed.News {
		if item.Title == "" {
			continue
		}
		headlines = append(headlines, item.Title)
		if len(headlines) == limit {
			break
		}
	}
	return headlines, nil
}
