package timeseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestResample_SumsAndFillsGaps(t *testing.T) {
	obs := []Observation{
		{Month: month(2024, time.January), Value: 3},
		{Month: month(2024, time.January), Value: 4},
		{Month: month(2024, time.April), Value: 2},
	}

	s := Resample("Produk A", obs)

	require.Equal(t, 4, s.Len())
	assert.Equal(t, []time.Time{
		month(2024, time.January),
		month(2024, time.February),
		month(2024, time.March),
		month(2024, time.April),
	}, s.Months)
	assert.Equal(t, []float64{7, 0, 0, 2}, s.Values)
}

func TestResample_NormalizesDaysWithinMonth(t *testing.T) {
	obs := []Observation{
		{Month: time.Date(2024, 5, 14, 10, 0, 0, 0, time.UTC), Value: 1},
		{Month: time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC), Value: 2},
	}

	s := Resample("p", obs)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, 3.0, s.Values[0])
}

func TestResample_Empty(t *testing.T) {
	s := Resample("p", nil)
	assert.Equal(t, 0, s.Len())
	assert.True(t, s.LastMonth().IsZero())
}

func TestFutureMonths(t *testing.T) {
	s := Resample("p", []Observation{
		{Month: month(2024, time.January), Value: 1},
	})

	future := s.FutureMonths(3)
	assert.Equal(t, []time.Time{
		month(2024, time.February),
		month(2024, time.March),
		month(2024, time.April),
	}, future)
}

func TestSplit(t *testing.T) {
	obs := make([]Observation, 10)
	for i := range obs {
		obs[i] = Observation{Month: month(2023, time.Month(i+1)), Value: float64(i)}
	}
	s := Resample("p", obs)

	train, holdout := s.Split(0.8)
	assert.Equal(t, 8, train.Len())
	assert.Equal(t, 2, holdout.Len())
	assert.Equal(t, month(2023, time.September), holdout.Months[0])

	train, holdout = s.Split(0.95)
	assert.Equal(t, 9, train.Len())
	assert.Equal(t, 1, holdout.Len())
}

func TestLog1pExpm1Roundtrip(t *testing.T) {
	s := &MonthlySeries{Values: []float64{0, 1, 10, 250}}
	back := Expm1(s.Log1p().Values)
	for i, v := range s.Values {
		assert.InDelta(t, v, back[i], 1e-9)
	}
}

func TestChecksum(t *testing.T) {
	a := Resample("p", []Observation{
		{Month: month(2024, time.January), Value: 3},
		{Month: month(2024, time.February), Value: 5},
	})
	b := Resample("p", []Observation{
		{Month: month(2024, time.January), Value: 3},
		{Month: month(2024, time.February), Value: 5},
	})
	c := Resample("p", []Observation{
		{Month: month(2024, time.January), Value: 3},
		{Month: month(2024, time.February), Value: 6},
	})

	assert.Equal(t, a.Checksum(), b.Checksum())
	assert.NotEqual(t, a.Checksum(), c.Checksum())
}
