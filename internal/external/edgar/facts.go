package edgar

import (
	"context"
	"fmt"

	"github.com/oldlogancap/logan-screener/internal/contracts"
)

// factUnit is one reported value of a concept.
type factUnit struct {
	Accession string  `json:"accn"`
	Start     string  `json:"start"`
	End       string  `json:"end"`
	Value     float64 `json:"val"`
	Form      string  `json:"form"`
}

// companyFactsResponse mirrors the XBRL companyfacts payload, reduced to
// the us-gaap taxonomy in USD.
type companyFactsResponse struct {
	Facts struct {
		USGAAP map[string]struct {
			Units map[string][]factUnit `json:"units"`
		} `json:"us-gaap"`
	} `json:"facts"`
}

// FilingFacts returns structured statement line items for one filing.
// Concepts reported over a period (duration) go to the income statement
// map; point-in-time concepts go to the balance sheet map. When a filing
// reports a concept more than once, the longest-running then latest-ending
// period wins, which favors year-to-date over single-month figures.
func (c *Client) FilingFacts(ctx context.Context, cik string, ref contracts.FilingRef) (*contracts.StatementFacts, error) {
	url := fmt.Sprintf("%s/api/xbrl/companyfacts/CIK%s.json", c.baseURL, cik)

	var parsed companyFactsResponse
	if err := c.httpClient.GetJSON(ctx, url, &parsed); err != nil {
		return nil, fmt.Errorf("fetching company facts for CIK %s: %w", cik, err)
	}

	facts := &contracts.StatementFacts{
		IncomeStatement: make(map[string]float64),
		BalanceSheet:    make(map[string]float64),
	}

	for tag, concept := range parsed.Facts.USGAAP {
		units, ok := concept.Units["USD"]
		if !ok {
			continue
		}

		var best *factUnit
		for i := range units {
			u := &units[i]
			if u.Accession != ref.AccessionNumber {
				continue
			}
			if best == nil || preferUnit(u, best) {
				best = u
			}
		}
		if best == nil {
			continue
		}

		if best.Start != "" {
			facts.IncomeStatement[tag] = best.Value
		} else {
			facts.BalanceSheet[tag] = best.Value
		}
	}

	if len(facts.IncomeStatement) == 0 && len(facts.BalanceSheet) == 0 {
		return nil, fmt.Errorf("no facts reported under accession %s", ref.AccessionNumber)
	}
	return facts, nil
}

// preferUnit reports whether a should replace b as the representative
// value for a concept.
func preferUnit(a, b *factUnit) bool {
	if a.End != b.End {
		return a.End > b.End
	}
	// Same end date: the earlier start covers the longer period.
	return a.Start < b.Start
}
