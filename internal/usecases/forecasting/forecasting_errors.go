package forecasting

import (
	"errors"
	"fmt"
)

// Pipeline errors, surfaced to the caller as-is: there are no retries.
var (
	// ErrEmptySeries: the selected product has no rows in the table.
	ErrEmptySeries = errors.New("no sales rows for product")
	// ErrSeriesTooShort: the product has rows, but not enough for the
	// requested statistical operation.
	ErrSeriesTooShort = errors.New("series too short")
	// ErrOrderSearch: the automatic order search exhausted its candidates.
	ErrOrderSearch = errors.New("automatic order search failed")
	// ErrInvalidOrder: a manual order had negative components.
	ErrInvalidOrder = errors.New("order components must be non-negative")
	// ErrFit: the optimizer failed or the order is invalid for the data.
	ErrFit = errors.New("model fit failed")
	// ErrForecast: bad horizon or an unusable model artifact.
	ErrForecast = errors.New("forecast failed")
	// ErrUntrained: no persisted model for the product. Not a pipeline
	// failure; callers report it as guidance to train first.
	ErrUntrained = errors.New("no trained model for product, train it first")
)

// PipelineError carries the product context alongside the base error.
type PipelineError struct {
	Err     error
	Product string
	Details string
}

func (e *PipelineError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func newPipelineError(base error, product, details string) *PipelineError {
	return &PipelineError{Err: base, Product: product, Details: details}
}
