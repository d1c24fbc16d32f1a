package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelativeStrengthFromCloses(t *testing.T) {
	tests := []struct {
		name      string
		ticker    []float64
		benchmark []float64
		want      float64
		available bool
	}{
		{
			name:      "outperformer",
			ticker:    []float64{100, 110, 150},
			benchmark: []float64{100, 105, 120},
			want:      1.25,
			available: true,
		},
		{
			name:      "flat benchmark",
			ticker:    []float64{100, 130},
			benchmark: []float64{400, 400},
			available: false,
		},
		{
			name:      "underperformer",
			ticker:    []float64{100, 90},
			benchmark: []float64{100, 120},
			want:      0.75,
			available: true,
		},
		{
			name:      "single ticker close",
			ticker:    []float64{100},
			benchmark: []float64{100, 120},
			available: false,
		},
		{
			name:      "single benchmark close",
			ticker:    []float64{100, 120},
			benchmark: []float64{100},
			available: false,
		},
		{
			name:      "empty series",
			ticker:    nil,
			benchmark: nil,
			available: false,
		},
		{
			name:      "zero starting close",
			ticker:    []float64{0, 120},
			benchmark: []float64{100, 120},
			available: false,
		},
		{
			name:      "benchmark lost everything",
			ticker:    []float64{100, 120},
			benchmark: []float64{100, 0},
			available: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := RelativeStrengthFromCloses(tt.ticker, tt.benchmark)
			v, ok := m.Get()
			assert.Equal(t, tt.available, ok)
			if tt.available {
				assert.InDelta(t, tt.want, v, 1e-9)
			}
		})
	}
}
