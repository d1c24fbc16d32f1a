package resolver

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxMDNAChars caps the stored narrative. Filings routinely run to
// hundreds of kilobytes of discussion.
const maxMDNAChars = 15000

const truncationMarker = " [truncated]"

var (
	htmlTagRe    = regexp.MustCompile(`(?s)<[^>]+>`)
	whitespaceRe = regexp.MustCompile(`\s+`)

	// The discussion section starts at its item heading and runs to the
	// next item heading. Quarterly reports put it under Item 2, annual
	// reports under Item 7; match either.
	mdnaStartRe = regexp.MustCompile(`(?i)item\s+[27]\s*[.:]?\s*management['\x60’]?s?\s+discussion\s+and\s+analysis`)
	mdnaEndRe   = regexp.MustCompile(`(?i)item\s+[38]\s*[.:]?\s*quantitative\s+and\s+qualitative`)
)

// ExtractMDNA pulls the Management's Discussion and Analysis section out
// of a filing document. Returns "" when no section can be located. The
// result is plain text, whitespace-collapsed, capped at 15000 characters.
func ExtractMDNA(document string) string {
	if document == "" {
		return ""
	}

	text := htmlTagRe.ReplaceAllString(document, " ")
	text = html.UnescapeString(text)
	text = whitespaceRe.ReplaceAllString(text, " ")

	// The table of contents also matches the heading; take the last start
	// match before the last end match so the body section wins.
	starts := mdnaStartRe.FindAllStringIndex(text, -1)
	if len(starts) == 0 {
		return ""
	}
	start := starts[len(starts)-1][0]

	section := text[start:]
	if end := mdnaEndRe.FindStringIndex(section); end != nil {
		section = section[:end[0]]
	}
	section = strings.TrimSpace(section)
	if section == "" {
		return ""
	}

	if len(section) > maxMDNAChars {
		cut := maxMDNAChars
		for cut > 0 && !utf8.RuneStart(section[cut]) {
			cut--
		}
		section = section[:cut] + truncationMarker
	}
	return section
}
