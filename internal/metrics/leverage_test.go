package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oldlogancap/logan-screener/internal/contracts"
)

func ptr(v float64) *float64 { return &v }

func filing(accession string, revenue, netIncome *float64) *contracts.QuarterlyFiling {
	return &contracts.QuarterlyFiling{
		Ticker:          "AAPL",
		FormType:        "10-Q",
		AccessionNumber: accession,
		Revenue:         revenue,
		NetIncome:       netIncome,
	}
}

func TestOperatingLeverageFromFilings(t *testing.T) {
	tests := []struct {
		name      string
		older     *contracts.QuarterlyFiling
		newer     *contracts.QuarterlyFiling
		want      float64
		available bool
	}{
		{
			name:      "profits outpace sales",
			older:     filing("a1", ptr(100), ptr(10)),
			newer:     filing("a2", ptr(120), ptr(15)),
			want:      2.5,
			available: true,
		},
		{
			name:      "profits lag sales",
			older:     filing("a1", ptr(100), ptr(10)),
			newer:     filing("a2", ptr(150), ptr(11)),
			want:      0.2,
			available: true,
		},
		{
			name:      "negative base income",
			older:     filing("a1", ptr(100), ptr(-10)),
			newer:     filing("a2", ptr(120), ptr(5)),
			want:      7.5,
			available: true,
		},
		{
			name:      "zero base revenue",
			older:     filing("a1", ptr(0), ptr(10)),
			newer:     filing("a2", ptr(120), ptr(15)),
			available: false,
		},
		{
			name:      "zero base income",
			older:     filing("a1", ptr(100), ptr(0)),
			newer:     filing("a2", ptr(120), ptr(15)),
			available: false,
		},
		{
			name:      "flat revenue",
			older:     filing("a1", ptr(100), ptr(10)),
			newer:     filing("a2", ptr(100), ptr(15)),
			available: false,
		},
		{
			name:      "missing net income",
			older:     filing("a1", ptr(100), nil),
			newer:     filing("a2", ptr(120), ptr(15)),
			available: false,
		},
		{
			name:      "nil filing",
			older:     nil,
			newer:     filing("a2", ptr(120), ptr(15)),
			available: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := OperatingLeverageFromFilings(tt.older, tt.newer)
			v, ok := m.Get()
			assert.Equal(t, tt.available, ok)
			if tt.available {
				assert.InDelta(t, tt.want, v, 1e-9)
			}
		})
	}
}

func TestProviderOperatingLeverageSkipsIncompleteFilings(t *testing.T) {
	repo := &fakeFilingRepo{filings: map[string][]*contracts.QuarterlyFiling{
		"AAPL": {
			filing("a3", ptr(120), nil),     // newest, unusable
			filing("a2", ptr(120), ptr(15)), // newer usable
			filing("a1", ptr(100), ptr(10)), // older usable
		},
	}}
	p := newTestProvider(&fakeMarket{}, repo)

	m := p.OperatingLeverage(context.Background(), "AAPL")
	v, ok := m.Get()
	assert.True(t, ok)
	assert.InDelta(t, 2.5, v, 1e-9)
}

func TestProviderOperatingLeverageNotEnoughFilings(t *testing.T) {
	repo := &fakeFilingRepo{filings: map[string][]*contracts.QuarterlyFiling{
		"AAPL": {filing("a1", ptr(100), ptr(10))},
	}}
	p := newTestProvider(&fakeMarket{}, repo)

	m := p.OperatingLeverage(context.Background(), "AAPL")
	assert.False(t, m.Available())
}
