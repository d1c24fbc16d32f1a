package contracts

import (
	"regexp"
	"strings"
)

// Ticker format: 1-6 uppercase alphanumerics with an optional single dash
// for share classes (e.g. BRK-B). Everything is keyed by this identifier.
var tickerPattern = regexp.MustCompile(`^[A-Z0-9]+(-[A-Z0-9]+)?$`)

// ValidTicker reports whether s is a well-formed ticker symbol.
func ValidTicker(s string) bool {
	if len(s) == 0 || len(s) > 6 {
		return false
	}
	return tickerPattern.MatchString(s)
}

// NormalizeTicker cleans a raw ticker symbol: trims whitespace and a leading
// '$', uppercases, and converts class-share dots to dashes (BRK.B -> BRK-B).
func NormalizeTicker(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ToUpper(s)
	s = strings.ReplaceAll(s, ".", "-")
	return s
}
