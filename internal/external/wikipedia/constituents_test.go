package wikipedia

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oldlogancap/logan-screener/pkg/config"
	"github.com/oldlogancap/logan-screener/pkg/httputil"
	"github.com/oldlogancap/logan-screener/pkg/logger"
)

const articleHTML = `<html><body>
<table class="wikitable"><tbody>
<tr><th>Date</th><th>Event</th></tr>
<tr><td>1999</td><td>Index launched</td></tr>
</tbody></table>
<table class="wikitable sortable" id="constituents"><tbody>
<tr><th>Symbol</th><th>Security</th><th>GICS Sector</th></tr>
<tr><td>MMM</td><td>3M</td><td>Industrials</td></tr>
<tr><td>AOS</td><td>A. O. Smith</td><td>Industrials</td></tr>
<tr><td> ABT </td><td>Abbott</td><td>Health Care</td></tr>
</tbody></table>
</body></html>`

func TestExtractSymbols(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(articleHTML))
	require.NoError(t, err)

	symbols := extractSymbols(doc)
	assert.Equal(t, []string{"MMM", "AOS", "ABT"}, symbols)
}

func TestExtractSymbolsTickerHeader(t *testing.T) {
	html := `<table class="wikitable"><tbody>
	<tr><th>Company</th><th>Ticker</th></tr>
	<tr><td>Apple</td><td>AAPL</td></tr>
	</tbody></table>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	assert.Equal(t, []string{"AAPL"}, extractSymbols(doc))
}

func TestExtractSymbolsNoTable(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><p>prose only</p></html>"))
	require.NoError(t, err)
	assert.Empty(t, extractSymbols(doc))
}

func newTestSource(baseURL string) *Source {
	cfg := &config.Config{Retry: config.RetryConfig{MaxAttempts: 1, BaseDelay: time.Millisecond}}
	log := logger.NewNop()
	return &Source{httpClient: httputil.New(cfg, log), baseURL: baseURL, logger: log}
}

func TestConstituentsEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/List_of_S%26P_500_companies", r.URL.RequestURI())
		w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	symbols, err := newTestSource(srv.URL + "/").Constituents(context.Background(), "sp500")
	require.NoError(t, err)
	assert.Equal(t, []string{"MMM", "AOS", "ABT"}, symbols)
}

func TestConstituentsUnknownIndex(t *testing.T) {
	_, err := newTestSource("http://unused/").Constituents(context.Background(), "ftse100")
	assert.ErrorContains(t, err, "unknown index")
}
