// Package timeseries holds the month-indexed series type the forecasting
// pipeline operates on, plus the resampling and transform helpers around it.
package timeseries

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sort"
	"time"
)

// Observation is a single raw (month, value) pair before resampling.
type Observation struct {
	Month time.Time
	Value float64
}

// MonthlySeries is an ordered, gapless sequence of monthly values. Months are
// normalized to the first day of the month in UTC and strictly increasing.
type MonthlySeries struct {
	Product string      `json:"product,omitempty"`
	Months  []time.Time `json:"months"`
	Values  []float64   `json:"values"`
}

// NormalizeMonth truncates a timestamp to the first day of its month in UTC.
func NormalizeMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths returns the month n steps after m, normalized.
func AddMonths(m time.Time, n int) time.Time {
	return NormalizeMonth(m).AddDate(0, n, 0)
}

// Resample aggregates observations by calendar month (summing values) and
// fills every month between the first and last observed month with zero when
// no observation lands on it.
func Resample(product string, obs []Observation) *MonthlySeries {
	if len(obs) == 0 {
		return &MonthlySeries{Product: product}
	}

	totals := make(map[time.Time]float64, len(obs))
	for _, o := range obs {
		totals[NormalizeMonth(o.Month)] += o.Value
	}

	months := make([]time.Time, 0, len(totals))
	for m := range totals {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	first, last := months[0], months[len(months)-1]

	s := &MonthlySeries{Product: product}
	for m := first; !m.After(last); m = AddMonths(m, 1) {
		s.Months = append(s.Months, m)
		s.Values = append(s.Values, totals[m])
	}
	return s
}

// Len returns the number of months in the series.
func (s *MonthlySeries) Len() int {
	return len(s.Values)
}

// LastMonth returns the last observed month, or the zero time for an empty
// series.
func (s *MonthlySeries) LastMonth() time.Time {
	if len(s.Months) == 0 {
		return time.Time{}
	}
	return s.Months[len(s.Months)-1]
}

// FutureMonths returns the h months following the series' last month.
func (s *MonthlySeries) FutureMonths(h int) []time.Time {
	out := make([]time.Time, 0, h)
	for i := 1; i <= h; i++ {
		out = append(out, AddMonths(s.LastMonth(), i))
	}
	return out
}

// Mean returns the arithmetic mean of the series values.
func (s *MonthlySeries) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range s.Values {
		sum += v
	}
	return sum / float64(len(s.Values))
}

// Split partitions the series chronologically. ratio is the fraction that
// goes to the first (training) part; the remainder is the holdout.
func (s *MonthlySeries) Split(ratio float64) (train, holdout *MonthlySeries) {
	cut := int(math.Floor(float64(s.Len()) * ratio))
	if cut < 0 {
		cut = 0
	}
	if cut > s.Len() {
		cut = s.Len()
	}
	train = &MonthlySeries{Product: s.Product, Months: s.Months[:cut], Values: s.Values[:cut]}
	holdout = &MonthlySeries{Product: s.Product, Months: s.Months[cut:], Values: s.Values[cut:]}
	return train, holdout
}

// Log1p returns a copy of the series with log(1+x) applied to every value.
// Sales counts are non-negative, so the transform is always defined.
func (s *MonthlySeries) Log1p() *MonthlySeries {
	values := make([]float64, len(s.Values))
	for i, v := range s.Values {
		values[i] = math.Log1p(v)
	}
	return &MonthlySeries{Product: s.Product, Months: s.Months, Values: values}
}

// Expm1 reverses Log1p on a slice of forecast values.
func Expm1(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Expm1(v)
	}
	return out
}

// Checksum returns a hex SHA-256 over the months and values, used to detect
// that a persisted model was trained on a different series.
func (s *MonthlySeries) Checksum() string {
	h := sha256.New()
	var buf [8]byte
	for i := range s.Values {
		binary.BigEndian.PutUint64(buf[:], uint64(s.Months[i].Unix()))
		h.Write(buf[:])
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(s.Values[i]))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
