package story

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/oldlogancap/logan-screener/internal/contracts"
	"github.com/oldlogancap/logan-screener/pkg/logger"
)

// maxHeadlines caps how many headlines go into the prompt.
const maxHeadlines = 5

const passReasonUnavailable = "AI analysis unavailable - defaulting to pass"

const systemPrompt = `You are an equity analyst screening growth stocks. ` +
	`Given a ticker and recent news headlines, judge whether the company has ` +
	`a credible growth story: new products, new management, expanding markets, ` +
	`or other durable catalysts. Respond with ONLY a JSON object of the form ` +
	`{"passes": true|false, "reason": "<one sentence>"} and nothing else.`

// Analyzer is the qualitative "story" filter. It is advisory and fails
// open: when the AI backend is unconfigured, unreachable, or returns
// something unparseable, the ticker passes.
type Analyzer struct {
	chat   contracts.ChatProvider
	market contracts.MarketDataProvider
	logger *logger.Logger
}

// NewAnalyzer creates a story analyzer.
func NewAnalyzer(chat contracts.ChatProvider, market contracts.MarketDataProvider, log *logger.Logger) *Analyzer {
	return &Analyzer{chat: chat, market: market, logger: log}
}

// Analyze returns the story verdict for a ticker. Never returns an error;
// every failure mode degrades to a pass.
func (a *Analyzer) Analyze(ctx context.Context, ticker string) contracts.StoryVerdict {
	if a.chat == nil || !a.chat.Configured() {
		return contracts.StoryVerdict{Passes: true, Reason: passReasonUnavailable}
	}

	headlines, err := a.market.Headlines(ctx, ticker, maxHeadlines)
	if err != nil || len(headlines) == 0 {
		if err != nil {
			a.logger.WithError(err).WithField("ticker", ticker).
				Warn("story filter: headline fetch failed")
		}
		return contracts.StoryVerdict{Passes: true, Reason: passReasonUnavailable}
	}
	if len(headlines) > maxHeadlines {
		headlines = headlines[:maxHeadlines]
	}

	prompt := buildPrompt(ticker, headlines)
	raw, err := a.chat.Complete(ctx, systemPrompt, []contracts.ChatMessage{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		a.logger.WithError(err).WithField("ticker", ticker).
			Warn("story filter: completion failed")
		return contracts.StoryVerdict{Passes: true, Reason: passReasonUnavailable}
	}

	verdict, ok := parseVerdict(raw)
	if !ok {
		a.logger.WithField("ticker", ticker).
			Warn("story filter: unparseable response")
		return contracts.StoryVerdict{Passes: true, Reason: passReasonUnavailable}
	}
	return verdict
}

func buildPrompt(ticker string, headlines []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ticker: %s\nRecent headlines:\n", ticker)
	for _, h := range headlines {
		fmt.Fprintf(&b, "- %s\n", h)
	}
	return b.String()
}

// parseVerdict extracts the JSON verdict from a model response. Models
// sometimes wrap the object in prose or code fences, so the first balanced
// top-level brace span is scanned out before unmarshalling.
func parseVerdict(raw string) (contracts.StoryVerdict, bool) {
	span, ok := firstJSONObject(raw)
	if !ok {
		return contracts.StoryVerdict{}, false
	}

	var parsed struct {
		Passes *bool  `json:"passes"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(span), &parsed); err != nil || parsed.Passes == nil {
		return contracts.StoryVerdict{}, false
	}
	return contracts.StoryVerdict{Passes: *parsed.Passes, Reason: parsed.Reason}, true
}

// firstJSONObject returns the first balanced {...} span, respecting string
// literals and escapes.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
