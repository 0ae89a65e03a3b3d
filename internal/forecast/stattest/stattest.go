// Package stattest implements the unit-root and autocorrelation statistics
// used by the stationarity check and the automatic order search.
package stattest

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrTooFewObservations is returned when a series is too short for a test.
var ErrTooFewObservations = errors.New("too few observations for statistical test")

const minObservations = 10

// ADFResult holds the outcome of an augmented Dickey-Fuller unit-root test.
type ADFResult struct {
	Statistic    float64 `json:"statistic"`
	PValue       float64 `json:"p_value"`
	Lags         int     `json:"lags"`
	NObs         int     `json:"n_obs"`
	IsStationary bool    `json:"is_stationary"`
}

// ADF runs the augmented Dickey-Fuller test (regression with constant, no
// trend). The null hypothesis is a unit root: a p-value below 0.05 rejects it
// and the series is reported stationary.
func ADF(values []float64, maxLag int) (*ADFResult, error) {
	n := len(values)
	if n < minObservations {
		return nil, errors.Wrapf(ErrTooFewObservations, "adf: need at least %d, got %d", minObservations, n)
	}

	if maxLag <= 0 {
		// Schwert-style default, floor((n-1)^(1/3)).
		maxLag = int(math.Floor(math.Pow(float64(n-1), 1.0/3.0)))
	}
	if maxLag >= n-1 {
		maxLag = n - 2
	}

	diff := difference(values)

	nObs := n - maxLag - 1
	if nObs < minObservations {
		return nil, errors.Wrapf(ErrTooFewObservations, "adf: only %d usable observations", nObs)
	}

	// delta_y_t = alpha + beta*y_{t-1} + sum_i gamma_i*delta_y_{t-i} + e_t,
	// testing beta = 0.
	k := 2 + maxLag
	x := mat.NewDense(nObs, k, nil)
	y := make([]float64, nObs)
	for i := 0; i < nObs; i++ {
		t := i + maxLag
		y[i] = diff[t]
		x.Set(i, 0, 1)
		x.Set(i, 1, values[t])
		for j := 1; j <= maxLag; j++ {
			x.Set(i, 1+j, diff[t-j])
		}
	}

	coeffs, se, err := ols(x, y)
	if err != nil {
		return nil, err
	}
	if se[1] == 0 {
		return nil, errors.New("adf: degenerate regression")
	}

	tStat := coeffs[1] / se[1]
	pValue := mackinnonPValue(tStat)

	return &ADFResult{
		Statistic:    tStat,
		PValue:       pValue,
		Lags:         maxLag,
		NObs:         nObs,
		IsStationary: pValue < 0.05,
	}, nil
}

// KPSSResult holds the outcome of a KPSS level-stationarity test.
type KPSSResult struct {
	Statistic    float64 `json:"statistic"`
	PValue       float64 `json:"p_value"`
	Lags         int     `json:"lags"`
	IsStationary bool    `json:"is_stationary"`
}

// KPSS runs the Kwiatkowski-Phillips-Schmidt-Shin test around a constant.
// The null hypothesis is stationarity, so a p-value of at least 0.05 keeps
// the series reported as stationary.
func KPSS(values []float64, nlags int) (*KPSSResult, error) {
	n := len(values)
	if n < minObservations {
		return nil, errors.Wrapf(ErrTooFewObservations, "kpss: need at least %d, got %d", minObservations, n)
	}

	if nlags <= 0 {
		nlags = int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	residuals := make([]float64, n)
	for i, v := range values {
		residuals[i] = v - mean
	}

	cumSum := make([]float64, n)
	cumSum[0] = residuals[0]
	for i := 1; i < n; i++ {
		cumSum[i] = cumSum[i-1] + residuals[i]
	}

	// Newey-West long-run variance with Bartlett weights.
	s2 := 0.0
	for _, r := range residuals {
		s2 += r * r
	}
	s2 /= float64(n)
	for l := 1; l <= nlags; l++ {
		cov := 0.0
		for i := l; i < n; i++ {
			cov += residuals[i] * residuals[i-l]
		}
		cov /= float64(n)
		s2 += 2 * (1 - float64(l)/float64(nlags+1)) * cov
	}
	if s2 <= 0 {
		s2 = 1e-10
	}

	etaSq := 0.0
	for _, cs := range cumSum {
		etaSq += cs * cs
	}
	stat := etaSq / (float64(n) * float64(n) * s2)
	pValue := kpssPValue(stat)

	return &KPSSResult{
		Statistic:    stat,
		PValue:       pValue,
		Lags:         nlags,
		IsStationary: pValue >= 0.05,
	}, nil
}

// ACF returns autocorrelations for lags 0..maxLag, or nil for a degenerate
// series.
func ACF(values []float64, maxLag int) []float64 {
	n := len(values)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

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

// ols solves y = X*beta by QR least squares and returns the coefficients
// with their standard errors. Working with the triangular factor keeps the
// condition number of X instead of squaring it through X'X.
func ols(x *mat.Dense, y []float64) (coeffs, stdErrors []float64, err error) {
	n, k := x.Dims()
	if n <= k {
		return nil, nil, errors.New("ols: more regressors than observations")
	}

	var qr mat.QR
	qr.Factorize(x)

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, mat.NewVecDense(n, y)); err != nil {
		if _, nearSingular := err.(mat.Condition); !nearSingular {
			return nil, nil, errors.Wrap(err, "ols: rank-deficient design matrix")
		}
	}

	coeffs = make([]float64, k)
	for i := 0; i < k; i++ {
		coeffs[i] = beta.AtVec(i)
	}

	sse := 0.0
	for i := 0; i < n; i++ {
		pred := 0.0
		for j := 0; j < k; j++ {
			pred += coeffs[j] * x.At(i, j)
		}
		resid := y[i] - pred
		sse += resid * resid
	}
	s2 := sse / float64(n-k)

	// (X'X)^{-1} = R^{-1} R^{-T}, so its diagonal is the squared row sums
	// of R^{-1}.
	var r mat.Dense
	qr.RTo(&r)

	ones := make([]float64, k)
	for i := range ones {
		ones[i] = 1
	}
	var rInv mat.Dense
	if err := rInv.Solve(r.Slice(0, k, 0, k), mat.NewDiagDense(k, ones)); err != nil {
		if _, nearSingular := err.(mat.Condition); !nearSingular {
			return nil, nil, errors.Wrap(err, "ols: rank-deficient design matrix")
		}
	}

	stdErrors = make([]float64, k)
	for i := 0; i < k; i++ {
		sum := 0.0
		for j := 0; j < k; j++ {
			v := rInv.At(i, j)
			sum += v * v
		}
		stdErrors[i] = math.Sqrt(s2 * sum)
	}
	return coeffs, stdErrors, nil
}

// mackinnonPValue approximates the ADF p-value for the constant-only
// regression after MacKinnon (1994).
func mackinnonPValue(stat float64) float64 {
	switch {
	case stat < -3.96:
		return 0.001
	case stat < -3.43:
		return 0.01
	case stat < -2.86:
		return 0.05
	case stat < -2.57:
		return 0.10
	case stat < -1.94:
		return 0.25
	case stat < -1.62:
		return 0.50
	default:
		return math.Min(0.5+(stat+1.62)*0.25, 0.99)
	}
}

// kpssCriticalValues are the level-stationarity critical values at the 10%,
// 5%, 2.5% and 1% significance levels.
var kpssCriticalValues = []struct{ stat, p float64 }{
	{0.347, 0.10},
	{0.463, 0.05},
	{0.574, 0.025},
	{0.739, 0.01},
}

// kpssPValue approximates the KPSS p-value for level stationarity by linear
// interpolation between the tabulated critical values, so a statistic just
// past a critical value maps just past its significance level.
func kpssPValue(stat float64) float64 {
	first := kpssCriticalValues[0]
	if stat <= first.stat {
		return math.Min(first.p+(first.stat-stat)*0.5, 0.99)
	}

	last := kpssCriticalValues[len(kpssCriticalValues)-1]
	if stat >= last.stat {
		return last.p
	}

	for i := 1; i < len(kpssCriticalValues); i++ {
		hi := kpssCriticalValues[i]
		if stat <= hi.stat {
			lo := kpssCriticalValues[i-1]
			frac := (stat - lo.stat) / (hi.stat - lo.stat)
			return lo.p + frac*(hi.p-lo.p)
		}
	}
	return last.p
}
