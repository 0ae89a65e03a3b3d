// Package autofit implements the automatic ARIMA order search used when the
// caller does not supply (p, d, q) directly.
package autofit

import (
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/awidars/stock-forecast-api/internal/forecast/arima"
	"github.com/awidars/stock-forecast-api/internal/forecast/stattest"
)

// ErrSearchExhausted is returned when no candidate order could be fitted.
var ErrSearchExhausted = errors.New("autofit: no candidate order could be fitted")

// Config bounds the stepwise search.
type Config struct {
	MaxP           int
	MaxD           int
	MaxQ           int
	SeasonalPeriod int // 0 disables the seasonal screen
}

// DefaultConfig mirrors the bounds of common auto-ARIMA implementations.
func DefaultConfig() Config {
	return Config{MaxP: 5, MaxD: 2, MaxQ: 5, SeasonalPeriod: 12}
}

// Result describes the order the search settled on.
type Result struct {
	Order           arima.Order `json:"order"`
	AICc            float64     `json:"aicc"`
	ModelsEvaluated int         `json:"models_evaluated"`
	SeasonalACF     float64     `json:"seasonal_acf"`
}

// Search selects an order by stepwise AICc search. Differencing depth is
// decided up front with KPSS (backed by ADF), then (p, q) neighbors of the
// best candidate are explored until no neighbor improves.
func Search(values []float64, cfg Config) (*Result, error) {
	if cfg.MaxP <= 0 && cfg.MaxQ <= 0 {
		cfg = DefaultConfig()
	}

	d := chooseDifferencing(values, cfg.MaxD)

	seasonalACF := 0.0
	if cfg.SeasonalPeriod > 1 && len(values) >= 2*cfg.SeasonalPeriod {
		if acf := stattest.ACF(values, cfg.SeasonalPeriod); len(acf) > cfg.SeasonalPeriod {
			seasonalACF = acf[cfg.SeasonalPeriod]
		}
	}

	type candidate struct{ p, q int }
	starts := []candidate{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {2, 2}}

	best := candidate{}
	bestAICc := math.Inf(1)
	evaluated := 0
	found := false

	try := func(s candidate) {
		if s.p < 0 || s.p > cfg.MaxP || s.q < 0 || s.q > cfg.MaxQ {
			return
		}
		model, err := arima.Fit(values, arima.Order{P: s.p, D: d, Q: s.q})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"p": s.p, "d": d, "q": s.q,
			}).Debug("autofit: candidate rejected")
			return
		}
		evaluated++
		if model.AICc < bestAICc {
			bestAICc = model.AICc
			best = s
			found = true
		}
	}

	for _, s := range starts {
		try(s)
	}
	if !found {
		return nil, errors.Wrapf(ErrSearchExhausted, "d=%d, %d candidates tried", d, len(starts))
	}

	for improved := true; improved; {
		improved = false
		prev := best
		neighbors := []candidate{
			{prev.p + 1, prev.q}, {prev.p - 1, prev.q},
			{prev.p, prev.q + 1}, {prev.p, prev.q - 1},
			{prev.p + 1, prev.q + 1}, {prev.p - 1, prev.q - 1},
		}
		for _, s := range neighbors {
			try(s)
		}
		if best != prev {
			improved = true
		}
	}

	return &Result{
		Order:           arima.Order{P: best.p, D: d, Q: best.q},
		AICc:            bestAICc,
		ModelsEvaluated: evaluated,
		SeasonalACF:     seasonalACF,
	}, nil
}

// chooseDifferencing returns the smallest d at which the series tests
// stationary, up to maxD. KPSS carries the decision; ADF breaks ties when
// KPSS is borderline.
func chooseDifferencing(values []float64, maxD int) int {
	if maxD <= 0 {
		maxD = 2
	}

	current := values
	for d := 0; d < maxD; d++ {
		kpss, kerr := stattest.KPSS(current, 0)
		adf, aerr := stattest.ADF(current, 0)

		kpssOK := kerr == nil && kpss.IsStationary
		// ADF only breaks ties when it is available; KPSS carries the
		// decision on its own otherwise.
		adfOK := aerr != nil || adf.IsStationary

		if (kpssOK && adfOK) || (kpssOK && kpss.PValue > 0.1) {
			return d
		}

		current = diff(current)
		if len(current) < 10 {
			return d
		}
	}
	return maxD
}

func diff(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		out[i-1] = values[i] - values[i-1]
	}
	return out
}
