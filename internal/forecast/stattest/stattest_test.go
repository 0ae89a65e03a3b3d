package stattest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pseudoNoise returns a fixed pseudo-random sequence in [-1, 1). Pure
// sinusoid fixtures satisfy an exact linear recurrence, which degenerates the
// ADF regression; mixing in noise keeps the residuals genuine while the tests
// stay deterministic.
func pseudoNoise(n int, seed uint64) []float64 {
	out := make([]float64, n)
	for i := range out {
		seed = seed*6364136223846793005 + 1442695040888963407
		out[i] = float64(seed>>11)/float64(1<<52) - 1
	}
	return out
}

// oscillating is a bounded, mean-reverting series around level.
func oscillating(n int, level float64) []float64 {
	noise := pseudoNoise(n, 1)
	values := make([]float64, n)
	for i := range values {
		values[i] = level + 10*math.Sin(2.1*float64(i)) + 3*math.Sin(0.7*float64(i)) + 2*noise[i]
	}
	return values
}

// trending grows without bound, the canonical non-stationary case.
func trending(n int) []float64 {
	noise := pseudoNoise(n, 2)
	values := make([]float64, n)
	for i := range values {
		values[i] = 2*float64(i) + math.Sin(1.3*float64(i)) + 2*noise[i]
	}
	return values
}

func TestADF_StationarySeries(t *testing.T) {
	result, err := ADF(oscillating(80, 50), 0)
	require.NoError(t, err)

	assert.True(t, result.IsStationary)
	assert.Less(t, result.PValue, 0.05)
	assert.Negative(t, result.Statistic)
	assert.Greater(t, result.Lags, 0)
}

func TestADF_TrendingSeries(t *testing.T) {
	result, err := ADF(trending(80), 0)
	require.NoError(t, err)

	assert.False(t, result.IsStationary)
	assert.GreaterOrEqual(t, result.PValue, 0.05)
}

func TestADF_IllConditionedLevel(t *testing.T) {
	// A huge level offset makes X'X numerically singular; the QR solve has
	// to survive it and still reach a verdict.
	values := trending(80)
	for i := range values {
		values[i] += 1e6
	}

	result, err := ADF(values, 0)
	require.NoError(t, err)
	assert.False(t, result.IsStationary)
}

func TestADF_TooShort(t *testing.T) {
	_, err := ADF([]float64{1, 2, 3}, 0)
	assert.ErrorIs(t, err, ErrTooFewObservations)
}

func TestKPSS_StationarySeries(t *testing.T) {
	result, err := KPSS(oscillating(80, 50), 0)
	require.NoError(t, err)

	assert.True(t, result.IsStationary)
	assert.GreaterOrEqual(t, result.PValue, 0.05)
}

func TestKPSS_TrendingSeries(t *testing.T) {
	result, err := KPSS(trending(80), 0)
	require.NoError(t, err)

	assert.False(t, result.IsStationary)
	assert.Less(t, result.PValue, 0.05)
}

func TestKPSSPValue_Interpolates(t *testing.T) {
	// A statistic just past the 5% critical value must map just past 0.05,
	// not sit on the boundary.
	assert.Less(t, kpssPValue(0.5), 0.05)
	assert.Greater(t, kpssPValue(0.5), 0.01)
	assert.InDelta(t, 0.05, kpssPValue(0.463), 1e-12)
	assert.Equal(t, 0.01, kpssPValue(0.8))
	assert.Greater(t, kpssPValue(0.2), 0.10)
}

func TestKPSS_TooShort(t *testing.T) {
	_, err := KPSS([]float64{1, 2}, 0)
	assert.ErrorIs(t, err, ErrTooFewObservations)
}

func TestACF(t *testing.T) {
	values := oscillating(60, 0)

	acf := ACF(values, 12)
	require.Len(t, acf, 13)
	assert.InDelta(t, 1.0, acf[0], 1e-12)
	for _, v := range acf {
		assert.LessOrEqual(t, math.Abs(v), 1.0+1e-9)
	}
}

func TestACF_Degenerate(t *testing.T) {
	assert.Nil(t, ACF([]float64{5, 5, 5, 5}, 2))
}
