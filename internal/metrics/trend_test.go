package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateTrendTemplateUptrend(t *testing.T) {
	// A steady climb from 100 to ~230 satisfies every sub-check.
	bars := linearBars(260, 100, 0.5)

	d := EvaluateTrendTemplate(bars, 200)
	require.NotNil(t, d)
	assert.True(t, d.Passed)
	assert.True(t, d.PriceAboveSMA150)
	assert.True(t, d.PriceAboveSMA200)
	assert.True(t, d.SMA150AboveSMA200)
	assert.True(t, d.SMA200Rising)
	assert.True(t, d.NearHigh)
	assert.True(t, d.OffLow)
	assert.Greater(t, d.PctFromLow, 30.0)
	assert.Greater(t, d.PctFromHigh, -25.0)
}

func TestEvaluateTrendTemplateDowntrend(t *testing.T) {
	bars := linearBars(260, 230, -0.5)

	d := EvaluateTrendTemplate(bars, 200)
	require.NotNil(t, d)
	assert.False(t, d.Passed)
	assert.False(t, d.PriceAboveSMA150)
	assert.False(t, d.PriceAboveSMA200)
	assert.False(t, d.SMA200Rising)
	assert.False(t, d.OffLow)
}

func TestEvaluateTrendTemplateFlat(t *testing.T) {
	// A flat series never shows a rising 200-day average.
	bars := linearBars(260, 100, 0)

	d := EvaluateTrendTemplate(bars, 200)
	require.NotNil(t, d)
	assert.False(t, d.SMA200Rising)
	assert.False(t, d.Passed)
}

func TestEvaluateTrendTemplateDeepPullback(t *testing.T) {
	// A long climb followed by a crash leaves the price far below its high.
	bars := linearBars(240, 100, 1.0)
	bars = append(bars, linearBars(20, 180, -6.0)...)

	d := EvaluateTrendTemplate(bars, 200)
	require.NotNil(t, d)
	assert.False(t, d.NearHigh)
	assert.False(t, d.Passed)
}

func TestEvaluateTrendTemplateShortHistory(t *testing.T) {
	assert.Nil(t, EvaluateTrendTemplate(linearBars(249, 100, 0.5), 200))
	assert.Nil(t, EvaluateTrendTemplate(nil, 200))
}

func TestSMATrendFromBars(t *testing.T) {
	t.Run("price above average", func(t *testing.T) {
		bars := linearBars(60, 100, 1.0)
		price, avg, above := SMATrendFromBars(bars, 50)

		pv, ok := price.Get()
		require.True(t, ok)
		assert.InDelta(t, 159.0, pv, 1e-9)

		av, ok := avg.Get()
		require.True(t, ok)
		assert.Less(t, av, pv)

		b, ok := above.Get()
		require.True(t, ok)
		assert.True(t, b)
	})

	t.Run("price below average", func(t *testing.T) {
		bars := linearBars(60, 200, -1.0)
		_, _, above := SMATrendFromBars(bars, 50)
		b, ok := above.Get()
		require.True(t, ok)
		assert.False(t, b)
	})

	t.Run("history shorter than period keeps price", func(t *testing.T) {
		bars := linearBars(10, 100, 1.0)
		price, avg, above := SMATrendFromBars(bars, 50)
		assert.True(t, price.Available())
		assert.False(t, avg.Available())
		assert.False(t, above.Available())
	})

	t.Run("empty series", func(t *testing.T) {
		price, avg, above := SMATrendFromBars(nil, 50)
		assert.False(t, price.Available())
		assert.False(t, avg.Available())
		assert.False(t, above.Available())
	})
}
