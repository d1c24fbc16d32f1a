package edgar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oldlogancap/logan-screener/internal/contracts"
)

// submissionsResponse mirrors the column-oriented recent filings index.
type submissionsResponse struct {
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			FilingDate      []string `json:"filingDate"`
			Form            []string `json:"form"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

// RecentFilings lists filings of the given form type, most recent first.
func (c *Client) RecentFilings(ctx context.Context, cik, formType string, limit int) ([]contracts.FilingRef, error) {
	url := fmt.Sprintf("%s/submissions/CIK%s.json", c.baseURL, cik)

	var parsed submissionsResponse
	if err := c.httpClient.GetJSON(ctx, url, &parsed); err != nil {
		return nil, fmt.Errorf("fetching submissions for CIK %s: %w", cik, err)
	}

	recent := parsed.Filings.Recent
	var refs []contracts.FilingRef
	for i, form := range recent.Form {
		if !strings.EqualFold(form, formType) {
			continue
		}
		if i >= len(recent.AccessionNumber) || i >= len(recent.FilingDate) {
			break
		}
		ref := contracts.FilingRef{
			FormType:        form,
			AccessionNumber: recent.AccessionNumber[i],
		}
		if date, err := time.Parse("2006-01-02", recent.FilingDate[i]); err == nil {
			ref.FilingDate = date
		}
		if i < len(recent.PrimaryDocument) {
			ref.PrimaryDocument = recent.PrimaryDocument[i]
		}
		refs = append(refs, ref)
		if limit > 0 && len(refs) == limit {
			break
		}
	}
	return refs, nil
}

// FilingDocument returns the raw primary document text for a filing.
func (c *Client) FilingDocument(ctx context.Context, cik string, ref contracts.FilingRef) (string, error) {
	if ref.PrimaryDocument == "" {
		return "", fmt.Errorf("filing %s has no primary document", ref.AccessionNumber)
	}

	url := fmt.Sprintf("%s/Archives/edgar/data/%s/%s/%s",
		c.archivesURL,
		strings.TrimLeft(cik, "0"),
		strings.ReplaceAll(ref.AccessionNumber, "-", ""),
		ref.PrimaryDocument)

	body, err := c.httpClient.GetBody(ctx, url)
	if err != nil {
		return "", fmt.Errorf("fetching document for %s: %w", ref.AccessionNumber, err)
	}
	return string(body), nil
}
