package yahoo

import (
	"context"
	"fmt"
	"net/url"

	"github.com/oldlogancap/logan-screener/internal/contracts"
	"github.com/oldlogancap/logan-screener/pkg/redis"
)

type rawValue struct {
	Raw float64 `json:"raw"`
}

// quoteSummaryResponse mirrors the v10 quoteSummary payload for the
// modules the screen needs. Every module is optional; listings vary.
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				LongName  string    `json:"longName"`
				ShortName string    `json:"shortName"`
				MarketCap *rawValue `json:"marketCap"`
			} `json:"price"`
			AssetProfile *struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"assetProfile"`
			MajorHoldersBreakdown *struct {
				InstitutionsPercentHeld *rawValue `json:"institutionsPercentHeld"`
				InsidersPercentHeld     *rawValue `json:"insidersPercentHeld"`
			} `json:"majorHoldersBreakdown"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// Profile returns the company profile. Ownership percentages land in the
// Fields map under their upstream names; the quoteSummary breakdown
// reports fractions, which downstream normalization handles.
func (c *Client) Profile(ctx context.Context, ticker string) (*contracts.CompanyProfile, error) {
	if c.cache != nil {
		var cached contracts.CompanyProfile
		if hit, err := c.cache.Get(ctx, redis.ProfileKey(ticker), &cached); err == nil && hit {
			return &cached, nil
		}
	}

	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?%s",
		c.baseURL, url.PathEscape(ticker),
		url.Values{
			"modules": {"price,assetProfile,majorHoldersBreakdown"},
		}.Encode())

	var parsed quoteSummaryResponse
	if err := c.httpClient.GetJSON(ctx, endpoint, &parsed); err != nil {
		return nil, fmt.Errorf("fetching profile for %s: %w", ticker, err)
	}
	if parsed.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("profile for %s: %s", ticker, parsed.QuoteSummary.Error.Description)
	}
	if len(parsed.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("profile for %s: empty result", ticker)
	}

	result := parsed.QuoteSummary.Result[0]
	profile := &contracts.CompanyProfile{Fields: make(map[string]float64)}

	if result.Price != nil {
		profile.Name = result.Price.LongName
		if profile.Name == "" {
			profile.Name = result.Price.ShortName
		}
		if result.Price.MarketCap != nil {
			profile.MarketCap = result.Price.MarketCap.Raw
		}
	}
	if result.AssetProfile != nil {
		profile.Sector = result.AssetProfile.Sector
		profile.Industry = result.AssetProfile.Industry
	}
	if mhb := result.MajorHoldersBreakdown; mhb != nil {
		if mhb.InstitutionsPercentHeld != nil {
			profile.Fields["institutionsPercentHeld"] = mhb.InstitutionsPercentHeld.Raw
		}
		if mhb.InsidersPercentHeld != nil {
			profile.Fields["insidersPercentHeld"] = mhb.InsidersPercentHeld.Raw
		}
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, redis.ProfileKey(ticker), profile, redis.TTLMedium); err != nil {
			c.logger.WithError(err).WithField("ticker", ticker).Warn("caching profile failed")
		}
	}
	return profile, nil
}
