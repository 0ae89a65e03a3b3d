package forecasting

import (
	"github.com/awidars/stock-forecast-api/internal/domain"
	"github.com/awidars/stock-forecast-api/internal/forecast/arima"
	"github.com/awidars/stock-forecast-api/internal/forecast/timeseries"
)

// TrainOptions selects the order mode and evaluation behavior for one
// training request.
type TrainOptions struct {
	// Auto runs the stepwise order search instead of using Order.
	Auto bool
	// Order is the manual (p, d, q) triple, used when Auto is false.
	Order arima.Order
	// Evaluate withholds the trailing 20% of the series and reports MAPE
	// against it.
	Evaluate bool
}

// Pipeline is the training/forecasting surface the handlers and the retrain
// scheduler drive.
type Pipeline interface {
	// BuildSeries filters the table to one product and resamples it to a
	// gapless monthly series.
	BuildSeries(table *domain.SalesTable, product string) (*timeseries.MonthlySeries, error)

	// CheckStationarity runs the advisory unit-root test on a series.
	CheckStationarity(series *timeseries.MonthlySeries) (*domain.StationarityReport, error)

	// Train resolves the order, fits, optionally evaluates, and persists
	// the model for the series' product.
	Train(series *timeseries.MonthlySeries, opts TrainOptions) (*domain.TrainingResult, error)

	// Forecast loads the persisted model for the series' product and
	// produces horizon months of predictions.
	Forecast(series *timeseries.MonthlySeries, horizon int) (*domain.ForecastResult, error)
}
