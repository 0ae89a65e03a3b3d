package autofit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pseudoNoise returns a fixed pseudo-random sequence in [-1, 1) so the unit
// root regressions inside the search see genuine residual noise.
func pseudoNoise(n int, seed uint64) []float64 {
	out := make([]float64, n)
	for i := range out {
		seed = seed*6364136223846793005 + 1442695040888963407
		out[i] = float64(seed>>11)/float64(1<<52) - 1
	}
	return out
}

func seasonalSeries(n int) []float64 {
	noise := pseudoNoise(n, 3)
	values := make([]float64, n)
	for i := range values {
		values[i] = 100 + 10*math.Sin(2*math.Pi*float64(i)/12) + 3*math.Sin(1.7*float64(i)) + 2*noise[i]
	}
	return values
}

func TestSearch_FindsAnOrder(t *testing.T) {
	result, err := Search(seasonalSeries(72), DefaultConfig())
	require.NoError(t, err)

	assert.True(t, result.Order.Valid())
	assert.LessOrEqual(t, result.Order.P, 5)
	assert.LessOrEqual(t, result.Order.Q, 5)
	assert.LessOrEqual(t, result.Order.D, 2)
	assert.Greater(t, result.ModelsEvaluated, 0)
	assert.False(t, math.IsInf(result.AICc, 0))
}

func TestSearch_Deterministic(t *testing.T) {
	values := seasonalSeries(60)

	a, err := Search(values, DefaultConfig())
	require.NoError(t, err)
	b, err := Search(values, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, a.Order, b.Order)
	assert.Equal(t, a.AICc, b.AICc)
}

func TestSearch_SeasonalACFReported(t *testing.T) {
	result, err := Search(seasonalSeries(72), DefaultConfig())
	require.NoError(t, err)

	// Period-12 seasonality shows up as a clearly positive lag-12 ACF.
	assert.Greater(t, result.SeasonalACF, 0.3)
}

func TestSearch_TooShort(t *testing.T) {
	_, err := Search([]float64{1, 2, 3, 4, 5}, DefaultConfig())
	assert.ErrorIs(t, err, ErrSearchExhausted)
}

func TestSearch_ZeroConfigFallsBackToDefaults(t *testing.T) {
	result, err := Search(seasonalSeries(60), Config{})
	require.NoError(t, err)
	assert.True(t, result.Order.Valid())
}

func TestChooseDifferencing(t *testing.T) {
	// Bounded oscillation needs no differencing.
	assert.Equal(t, 0, chooseDifferencing(seasonalSeries(72), 2))

	// A strong trend needs at least one round.
	noise := pseudoNoise(72, 4)
	trend := make([]float64, 72)
	for i := range trend {
		trend[i] = 3*float64(i) + math.Sin(1.3*float64(i)) + 2*noise[i]
	}
	assert.GreaterOrEqual(t, chooseDifferencing(trend, 2), 1)
}
