package wikipedia

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/oldlogancap/logan-screener/pkg/config"
	"github.com/oldlogancap/logan-screener/pkg/httputil"
	"github.com/oldlogancap/logan-screener/pkg/logger"
)

const defaultBaseURL = "https://en.wikipedia.org/wiki/"

// indexPages maps index names to the article carrying the constituent
// table.
var indexPages = map[string]string{
	"sp500":     "List_of_S%26P_500_companies",
	"nasdaq100": "Nasdaq-100",
	"dow30":     "Dow_Jones_Industrial_Average",
}

// symbolHeaders are the column titles that hold the ticker, in order of
// preference. Articles disagree on the wording.
var symbolHeaders = []string{"symbol", "ticker", "ticker symbol"}

// Source scrapes index constituent tables from Wikipedia articles. It
// implements contracts.ConstituentSource.
type Source struct {
	httpClient *httputil.Client
	baseURL    string
	logger     *logger.Logger
}

// NewSource creates a Wikipedia constituent source.
func NewSource(cfg *config.Config, log *logger.Logger) *Source {
	return &Source{
		httpClient: httputil.New(cfg, log),
		baseURL:    defaultBaseURL,
		logger:     log,
	}
}

// Indices lists the supported index names.
func (s *Source) Indices() []string {
	return []string{"sp500", "nasdaq100", "dow30"}
}

// Constituents returns the raw ticker symbols for an index, in article
// order. Symbols are returned as scraped; cleaning is the caller's job.
func (s *Source) Constituents(ctx context.Context, index string) ([]string, error) {
	page, ok := indexPages[index]
	if !ok {
		return nil, fmt.Errorf("unknown index %q (supported: %s)", index, strings.Join(s.Indices(), ", "))
	}

	body, err := s.httpClient.GetBody(ctx, s.baseURL+page)
	if err != nil {
		return nil, fmt.Errorf("fetching %s article: %w", index, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parsing %s article: %w", index, err)
	}

	symbols := extractSymbols(doc)
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no constituent table found for %s", index)
	}

	s.logger.WithField("index", index).WithField("symbols", len(symbols)).
		Debug("constituents scraped")
	return symbols, nil
}

// extractSymbols walks the article's wikitables and pulls the symbol
// column of the first table that has one.
func extractSymbols(doc *goquery.Document) []string {
	var symbols []string

	doc.Find("table.wikitable").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		col := symbolColumn(table)
		if col < 0 {
			return true // keep looking
		}

		table.Find("tbody tr").Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return // header
			}
			cells := row.Find("td")
			if cells.Length() <= col {
				return
			}
			symbol := strings.TrimSpace(cells.Eq(col).Text())
			if symbol != "" {
				symbols = append(symbols, symbol)
			}
		})
		return false
	})

	return symbols
}

// symbolColumn returns the index of the ticker column in the table's
// header row, or -1 when the table has none.
func symbolColumn(table *goquery.Selection) int {
	col := -1
	table.Find("tr").First().Find("th").Each(func(i int, th *goquery.Selection) {
		if col >= 0 {
			return
		}
		header := strings.ToLower(strings.TrimSpace(th.Text()))
		for _, want := range symbolHeaders {
			if header == want {
				col = i
				return
			}
		}
	})
	return col
}
