package arima

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ar1Series generates a deterministic AR(1)-like series around a level. The
// driver mixes two incommensurate frequencies so it carries no lag-one
// autocorrelation of its own, and every run fits the same model.
func ar1Series(n int, phi, level float64) []float64 {
	values := make([]float64, n)
	prev := level
	for i := 0; i < n; i++ {
		noise := 2*math.Sin(float64(i)*0.5) + 2*math.Sin(float64(i)*2.3)
		v := level + phi*(prev-level) + noise
		values[i] = v
		prev = v
	}
	return values
}

func TestFit_WhiteNoise(t *testing.T) {
	values := ar1Series(40, 0, 50)

	m, err := Fit(values, Order{P: 0, D: 0, Q: 0})
	require.NoError(t, err)

	assert.InDelta(t, 50, m.Intercept, 5)
	assert.Greater(t, m.Variance, 0.0)
	assert.False(t, math.IsInf(m.AICc, 0))
}

func TestFit_AR1(t *testing.T) {
	values := ar1Series(60, 0.6, 100)

	m, err := Fit(values, Order{P: 1, D: 0, Q: 0})
	require.NoError(t, err)

	require.Len(t, m.AR, 1)
	assert.InDelta(t, 0.6, m.AR[0], 0.3)
	assert.LessOrEqual(t, math.Abs(m.AR[0]), 0.99)
}

func TestFit_Deterministic(t *testing.T) {
	values := ar1Series(50, 0.5, 80)

	a, err := Fit(values, Order{P: 1, D: 1, Q: 1})
	require.NoError(t, err)
	b, err := Fit(values, Order{P: 1, D: 1, Q: 1})
	require.NoError(t, err)

	assert.Equal(t, a.AR, b.AR)
	assert.Equal(t, a.MA, b.MA)
	assert.Equal(t, a.AICc, b.AICc)

	predA, err := a.Predict(6)
	require.NoError(t, err)
	predB, err := b.Predict(6)
	require.NoError(t, err)
	assert.Equal(t, predA, predB)
}

func TestFit_Errors(t *testing.T) {
	_, err := Fit(ar1Series(40, 0.5, 10), Order{P: -1, D: 0, Q: 0})
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = Fit(ar1Series(5, 0.5, 10), Order{P: 1, D: 1, Q: 1})
	assert.ErrorIs(t, err, ErrTooFewObservations)
}

func TestPredict(t *testing.T) {
	values := ar1Series(60, 0.6, 100)

	m, err := Fit(values, Order{P: 1, D: 0, Q: 1})
	require.NoError(t, err)

	forecasts, err := m.Predict(12)
	require.NoError(t, err)
	require.Len(t, forecasts, 12)

	// Forecasts of a stationary model stay near the series level.
	for _, f := range forecasts {
		assert.InDelta(t, 100, f, 30)
	}

	_, err = m.Predict(0)
	assert.Error(t, err)
}

func TestPredict_Integrated(t *testing.T) {
	// Linear upward trend: with d=1 the forecasts keep climbing.
	values := make([]float64, 40)
	for i := range values {
		values[i] = float64(10 + 3*i)
	}

	m, err := Fit(values, Order{P: 0, D: 1, Q: 0})
	require.NoError(t, err)

	forecasts, err := m.Predict(3)
	require.NoError(t, err)
	require.Len(t, forecasts, 3)
	assert.Greater(t, forecasts[0], values[len(values)-1])
	assert.Greater(t, forecasts[1], forecasts[0])
	assert.Greater(t, forecasts[2], forecasts[1])
}

func TestPredict_NotFitted(t *testing.T) {
	m := &Model{}
	_, err := m.Predict(1)
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestMarshalRoundtrip(t *testing.T) {
	values := ar1Series(50, 0.6, 100)

	m, err := Fit(values, Order{P: 1, D: 1, Q: 1})
	require.NoError(t, err)

	data, err := m.MarshalBinary()
	require.NoError(t, err)

	restored := &Model{}
	require.NoError(t, restored.UnmarshalBinary(data))

	want, err := m.Predict(6)
	require.NoError(t, err)
	got, err := restored.Predict(6)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUnmarshal_Corrupt(t *testing.T) {
	m := &Model{}
	assert.Error(t, m.UnmarshalBinary([]byte("not a model")))
}
