// Package arima implements the autoregressive integrated moving-average
// model the trainer fits to product demand series. Estimation is by
// conditional sum of squares with Yule-Walker starting values.
package arima

import (
	"bytes"
	"encoding/gob"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

var (
	// ErrNotFitted is returned when prediction is requested before Fit.
	ErrNotFitted = errors.New("arima: model is not fitted")
	// ErrTooFewObservations is returned when the series cannot support the
	// requested order.
	ErrTooFewObservations = errors.New("arima: insufficient observations for order")
	// ErrInvalidOrder is returned for negative order components.
	ErrInvalidOrder = errors.New("arima: order components must be non-negative")
)

// Order is the (p, d, q) triple: AR terms, differencing degree, MA terms.
type Order struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`
}

// Valid reports whether every component is non-negative.
func (o Order) Valid() bool {
	return o.P >= 0 && o.D >= 0 && o.Q >= 0
}

// Model is a fitted ARIMA model.
type Model struct {
	Order     Order
	AR        []float64
	MA        []float64
	Intercept float64
	Variance  float64
	LogLik    float64
	AIC       float64
	AICc      float64
	BIC       float64

	fitted    bool
	original  []float64 // training values on the fitted scale
	diffed    []float64 // after d rounds of differencing
	residuals []float64
}

const (
	maxIterations = 100
	tolerance     = 1e-6
	initialStep   = 0.5
	minStep       = 1e-4
)

// Fit estimates an ARIMA model of the given order on values.
func Fit(values []float64, order Order) (*Model, error) {
	if !order.Valid() {
		return nil, ErrInvalidOrder
	}
	if len(values) < order.P+order.D+order.Q+10 {
		return nil, errors.Wrapf(ErrTooFewObservations, "need at least %d, got %d",
			order.P+order.D+order.Q+10, len(values))
	}

	m := &Model{
		Order:    order,
		AR:       make([]float64, order.P),
		MA:       make([]float64, order.Q),
		original: append([]float64(nil), values...),
	}

	diffed := m.original
	for i := 0; i < order.D; i++ {
		diffed = difference(diffed)
		if len(diffed) == 0 {
			return nil, errors.Wrap(ErrTooFewObservations, "differencing exhausted the series")
		}
	}
	m.diffed = diffed

	if err := m.estimate(); err != nil {
		return nil, err
	}
	m.informationCriteria()
	m.fitted = true
	return m, nil
}

// estimate runs the CSS optimization on the differenced series.
func (m *Model) estimate() error {
	y := m.diffed
	n := len(y)
	p, q := m.Order.P, m.Order.Q

	mean := floats.Sum(y) / float64(n)
	m.Intercept = mean

	if p == 0 && q == 0 {
		// White noise around the mean.
		m.residuals = make([]float64, n)
		variance := 0.0
		for i, v := range y {
			m.residuals[i] = v - mean
			variance += m.residuals[i] * m.residuals[i]
		}
		if n > 1 {
			m.Variance = variance / float64(n-1)
		}
		return nil
	}

	if p > 0 {
		if acf := autocorrelations(y, p); acf != nil {
			if phi := yuleWalker(acf, p); phi != nil {
				copy(m.AR, phi)
			}
		}
	}
	for i := range m.MA {
		m.MA[i] = 0.1
	}

	start := p
	if q > start {
		start = q
	}

	// The gradient scales with the squared deviations of the series, so it
	// is normalized by their mean square to keep steps in coefficient units.
	scale := 0.0
	for _, v := range y {
		d := v - mean
		scale += d * d
	}
	scale /= float64(n)

	residuals := make([]float64, n)
	sse := m.computeResiduals(y, residuals, start)

	for iter := 0; iter < maxIterations && scale > 0; iter++ {
		arGrad := make([]float64, p)
		maGrad := make([]float64, q)
		for t := start; t < n; t++ {
			for i := 0; i < p && t-i-1 >= 0; i++ {
				arGrad[i] -= 2 * residuals[t] * (y[t-i-1] - m.Intercept)
			}
			for i := 0; i < q && t-i-1 >= 0; i++ {
				maGrad[i] -= 2 * residuals[t] * residuals[t-i-1]
			}
		}
		for i := range arGrad {
			arGrad[i] /= float64(n) * scale
		}
		for i := range maGrad {
			maGrad[i] /= float64(n) * scale
		}

		prevAR := append([]float64(nil), m.AR...)
		prevMA := append([]float64(nil), m.MA...)

		// Backtracking line search: halve the step until the sum of squares
		// improves, so the Yule-Walker start is never walked away from.
		improved := false
		maxDelta := 0.0
		for step := initialStep; step >= minStep; step /= 2 {
			for i := 0; i < p; i++ {
				m.AR[i] = clamp(prevAR[i] - step*arGrad[i]) // stationarity bound
			}
			for i := 0; i < q; i++ {
				m.MA[i] = clamp(prevMA[i] - step*maGrad[i]) // invertibility bound
			}
			candidate := m.computeResiduals(y, residuals, start)
			if candidate < sse {
				sse = candidate
				improved = true
				for i := 0; i < p; i++ {
					maxDelta = math.Max(maxDelta, math.Abs(m.AR[i]-prevAR[i]))
				}
				for i := 0; i < q; i++ {
					maxDelta = math.Max(maxDelta, math.Abs(m.MA[i]-prevMA[i]))
				}
				break
			}
		}
		if !improved {
			copy(m.AR, prevAR)
			copy(m.MA, prevMA)
			break
		}
		if maxDelta < tolerance {
			break
		}
	}

	sse = m.computeResiduals(y, residuals, start)
	if math.IsNaN(sse) || math.IsInf(sse, 0) {
		return errors.New("arima: optimization diverged")
	}
	m.residuals = residuals

	count := n - start
	if count > p+q+1 {
		m.Variance = sse / float64(count-p-q-1)
	} else if count > 0 {
		m.Variance = sse / float64(count)
	}
	return nil
}

// computeResiduals fills residuals in place and returns the conditional sum
// of squares from index start.
func (m *Model) computeResiduals(y, residuals []float64, start int) float64 {
	p, q := m.Order.P, m.Order.Q
	sse := 0.0
	for t := 0; t < len(y); t++ {
		pred := m.Intercept
		if t >= start {
			for i := 0; i < p && t-i-1 >= 0; i++ {
				pred += m.AR[i] * (y[t-i-1] - m.Intercept)
			}
			for i := 0; i < q && t-i-1 >= 0; i++ {
				pred += m.MA[i] * residuals[t-i-1]
			}
		}
		residuals[t] = y[t] - pred
		if t >= start {
			sse += residuals[t] * residuals[t]
		}
	}
	return sse
}

func (m *Model) informationCriteria() {
	n := len(m.residuals)
	k := m.Order.P + m.Order.Q + 1

	sse := 0.0
	for _, r := range m.residuals {
		sse += r * r
	}

	if m.Variance > 0 {
		m.LogLik = -float64(n)/2*math.Log(2*math.Pi) -
			float64(n)/2*math.Log(m.Variance) - sse/(2*m.Variance)
	} else {
		m.LogLik = math.Inf(-1)
	}

	kf, nf := float64(k), float64(n)
	m.AIC = -2*m.LogLik + 2*kf
	if nf-kf-1 > 0 {
		m.AICc = m.AIC + 2*kf*(kf+1)/(nf-kf-1)
	} else {
		m.AICc = math.Inf(1)
	}
	m.BIC = -2*m.LogLik + kf*math.Log(nf)
}

// Predict returns steps point forecasts on the original (undifferenced)
// scale of the training values.
func (m *Model) Predict(steps int) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if steps < 1 {
		return nil, errors.New("arima: steps must be at least 1")
	}

	p, q := m.Order.P, m.Order.Q
	y := m.diffed
	n := len(y)

	extended := make([]float64, n+steps)
	copy(extended, y)
	extResiduals := make([]float64, n+steps)
	copy(extResiduals, m.residuals)

	for h := 0; h < steps; h++ {
		t := n + h
		pred := m.Intercept
		for i := 0; i < p && t-i-1 >= 0; i++ {
			pred += m.AR[i] * (extended[t-i-1] - m.Intercept)
		}
		// Future residuals have expectation zero.
		for i := 0; i < q && t-i-1 >= 0 && t-i-1 < n; i++ {
			pred += m.MA[i] * extResiduals[t-i-1]
		}
		extended[t] = pred
	}

	forecasts := append([]float64(nil), extended[n:]...)
	if m.Order.D > 0 {
		forecasts = m.integrate(forecasts)
	}
	return forecasts, nil
}

// integrate undoes differencing so forecasts land on the original scale.
func (m *Model) integrate(forecasts []float64) []float64 {
	result := append([]float64(nil), forecasts...)
	for i := 0; i < m.Order.D; i++ {
		last := m.original[len(m.original)-1-i]
		for j := range result {
			if j == 0 {
				result[j] += last
			} else {
				result[j] += result[j-1]
			}
		}
	}
	return result
}

// Residuals returns a copy of the in-sample residuals.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	return append([]float64(nil), m.residuals...)
}

func clamp(v float64) float64 {
	return math.Max(-0.99, math.Min(0.99, v))
}

func difference(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		out[i-1] = values[i] - values[i-1]
	}
	return out
}

// autocorrelations returns ACF values for lags 0..maxLag, or nil when the
// series has zero variance.
func autocorrelations(values []float64, maxLag int) []float64 {
	n := len(values)
	if maxLag >= n {
		maxLag = n - 1
	}
	mean := floats.Sum(values) / float64(n)

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	if variance == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (values[i] - mean) * (values[i-k] - mean)
		}
		acf[k] = sum / variance
	}
	return acf
}

// yuleWalker solves the Yule-Walker equations by Levinson-Durbin recursion
// for starting AR coefficients.
func yuleWalker(acf []float64, order int) []float64 {
	if order <= 0 || len(acf) <= order {
		return nil
	}

	phi := make([]float64, order)
	phi[0] = acf[1]
	if order == 1 {
		return phi
	}

	v := 1 - phi[0]*phi[0]
	for i := 1; i < order; i++ {
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		lambda /= v

		next := make([]float64, i+1)
		for j := 0; j < i; j++ {
			next[j] = phi[j] - lambda*phi[i-1-j]
		}
		next[i] = lambda
		copy(phi, next)

		v *= 1 - lambda*lambda
		if v <= 0 {
			break
		}
	}
	return phi
}

// snapshot carries the full fitted state through gob so a persisted model
// can forecast after reload.
type snapshot struct {
	Order     Order
	AR        []float64
	MA        []float64
	Intercept float64
	Variance  float64
	LogLik    float64
	AIC       float64
	AICc      float64
	BIC       float64
	Original  []float64
	Diffed    []float64
	Residuals []float64
}

// MarshalBinary encodes the fitted model for persistence.
func (m *Model) MarshalBinary() ([]byte, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(snapshot{
		Order:     m.Order,
		AR:        m.AR,
		MA:        m.MA,
		Intercept: m.Intercept,
		Variance:  m.Variance,
		LogLik:    m.LogLik,
		AIC:       m.AIC,
		AICc:      m.AICc,
		BIC:       m.BIC,
		Original:  m.original,
		Diffed:    m.diffed,
		Residuals: m.residuals,
	})
	if err != nil {
		return nil, errors.Wrap(err, "arima: encoding model")
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary restores a fitted model from its persisted form.
func (m *Model) UnmarshalBinary(data []byte) error {
	var s snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return errors.Wrap(err, "arima: decoding model")
	}
	if len(s.Diffed) == 0 || len(s.Residuals) != len(s.Diffed) {
		return errors.New("arima: decoded model state is inconsistent")
	}
	m.Order = s.Order
	m.AR = s.AR
	m.MA = s.MA
	m.Intercept = s.Intercept
	m.Variance = s.Variance
	m.LogLik = s.LogLik
	m.AIC = s.AIC
	m.AICc = s.AICc
	m.BIC = s.BIC
	m.original = s.Original
	m.diffed = s.Diffed
	m.residuals = s.Residuals
	m.fitted = true
	return nil
}
