// Package forecasting orchestrates the per-product pipeline: series
// building, stationarity check, order selection, training with holdout
// evaluation, persistence and forecasting.
package forecasting

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/awidars/stock-forecast-api/infrastructure/modelstore"
	"github.com/awidars/stock-forecast-api/infrastructure/repository"
	"github.com/awidars/stock-forecast-api/internal/config"
	"github.com/awidars/stock-forecast-api/internal/domain"
	"github.com/awidars/stock-forecast-api/internal/forecast/arima"
	"github.com/awidars/stock-forecast-api/internal/forecast/autofit"
	"github.com/awidars/stock-forecast-api/internal/forecast/stattest"
	"github.com/awidars/stock-forecast-api/internal/forecast/timeseries"
	"github.com/awidars/stock-forecast-api/pkg/utils"
)

const monthLayout = "2006-01"

// defaultOrder is the fallback when the automatic search fails and the
// fallback policy allows it.
var defaultOrder = arima.Order{P: 1, D: 1, Q: 1}

// Service implements Pipeline against a model store and an optional
// training-run repository.
type Service struct {
	store   modelstore.Store
	runRepo repository.TrainingRunRepository // nil when Postgres is disabled

	logTransform  bool
	orderFallback string
	splitRatio    float64
	maxHorizon    int
	search        autofit.Config
}

func NewService(cfg *config.Config, store modelstore.Store, runRepo repository.TrainingRunRepository) *Service {
	return &Service{
		store:         store,
		runRepo:       runRepo,
		logTransform:  cfg.Training.LogTransform,
		orderFallback: cfg.Training.OrderFallback,
		splitRatio:    cfg.Training.SplitRatio,
		maxHorizon:    cfg.Forecast.MaxHorizon,
		search: autofit.Config{
			MaxP:           cfg.Training.MaxP,
			MaxD:           cfg.Training.MaxD,
			MaxQ:           cfg.Training.MaxQ,
			SeasonalPeriod: cfg.Training.SeasonalPeriod,
		},
	}
}

// BuildSeries filters the table to one product, sums quantities per calendar
// month and fills the gaps between first and last observed month with zero.
func (s *Service) BuildSeries(table *domain.SalesTable, product string) (*timeseries.MonthlySeries, error) {
	obs := table.ObservationsFor(product)
	if len(obs) == 0 {
		return nil, newPipelineError(ErrEmptySeries, product, "")
	}
	return timeseries.Resample(product, obs), nil
}

// CheckStationarity runs the ADF test and reports the advisory verdict. It
// never alters the rest of the pipeline.
func (s *Service) CheckStationarity(series *timeseries.MonthlySeries) (*domain.StationarityReport, error) {
	result, err := stattest.ADF(series.Values, 0)
	if errors.Is(err, stattest.ErrTooFewObservations) {
		return nil, newPipelineError(ErrSeriesTooShort, series.Product, err.Error())
	}
	if err != nil {
		return nil, errors.Wrapf(err, "stationarity check for %s", series.Product)
	}

	advice := "series looks stationary"
	if !result.IsStationary {
		advice = "likely non-stationary, consider differencing"
	}

	return &domain.StationarityReport{
		Product:      series.Product,
		Statistic:    result.Statistic,
		PValue:       result.PValue,
		Lags:         result.Lags,
		IsStationary: result.IsStationary,
		Advice:       advice,
	}, nil
}

// Train resolves the order, fits the model and persists it. When Evaluate is
// set and the holdout is non-empty, accuracy is the MAPE of a split-fit
// model against the withheld months; the persisted model is always refit on
// the full series so forecasts continue from its last month.
func (s *Service) Train(series *timeseries.MonthlySeries, opts TrainOptions) (*domain.TrainingResult, error) {
	if series.Len() == 0 {
		return nil, newPipelineError(ErrEmptySeries, series.Product, "")
	}

	started := time.Now()

	fitSeries := series
	if s.logTransform {
		fitSeries = series.Log1p()
	}

	order, auto, err := s.resolveOrder(fitSeries, opts)
	if err != nil {
		return nil, err
	}

	var accuracy *float64
	holdoutMonths := 0
	if opts.Evaluate {
		accuracy, holdoutMonths, err = s.evaluate(series, fitSeries, order)
		if err != nil {
			return nil, err
		}
	}

	model, err := arima.Fit(fitSeries.Values, order)
	if err != nil {
		return nil, newPipelineError(ErrFit, series.Product, err.Error())
	}

	payload, err := model.MarshalBinary()
	if err != nil {
		return nil, newPipelineError(ErrFit, series.Product, err.Error())
	}

	trainedAt := time.Now()
	artifact := &domain.ModelArtifact{
		Product:        series.Product,
		Order:          order,
		AutoSelected:   auto,
		LogTransform:   s.logTransform,
		LastMonth:      series.LastMonth(),
		SeriesChecksum: series.Checksum(),
		TrainedAt:      trainedAt,
		Payload:        payload,
	}
	if err := s.store.Put(artifact); err != nil {
		return nil, err
	}

	result := &domain.TrainingResult{
		Product:       series.Product,
		Order:         order,
		AutoSelected:  auto,
		LogTransform:  s.logTransform,
		Accuracy:      accuracy,
		HoldoutMonths: holdoutMonths,
		TrainedAt:     trainedAt,
		DurationMS:    time.Since(started).Milliseconds(),
	}

	s.recordRun(result)

	logrus.WithFields(logrus.Fields{
		"product": series.Product,
		"order":   fmt.Sprintf("(%d,%d,%d)", order.P, order.D, order.Q),
		"auto":    auto,
	}).Info("forecasting: model trained and persisted")

	return result, nil
}

// Forecast produces horizon months of predictions from the persisted model,
// starting the month after the series' last observed month.
func (s *Service) Forecast(series *timeseries.MonthlySeries, horizon int) (*domain.ForecastResult, error) {
	if horizon <= 0 {
		return nil, newPipelineError(ErrForecast, series.Product, "horizon must be positive")
	}
	if horizon > s.maxHorizon {
		return nil, newPipelineError(ErrForecast, series.Product,
			fmt.Sprintf("horizon %d exceeds maximum of %d", horizon, s.maxHorizon))
	}

	artifact, err := s.store.Get(series.Product)
	if errors.Is(err, modelstore.ErrNotFound) {
		return nil, newPipelineError(ErrUntrained, series.Product, "")
	}
	if errors.Is(err, modelstore.ErrCorrupt) {
		return nil, newPipelineError(ErrForecast, series.Product, err.Error())
	}
	if err != nil {
		return nil, err
	}

	model := &arima.Model{}
	if err := model.UnmarshalBinary(artifact.Payload); err != nil {
		return nil, newPipelineError(ErrForecast, series.Product, err.Error())
	}

	predictions, err := model.Predict(horizon)
	if err != nil {
		return nil, newPipelineError(ErrForecast, series.Product, err.Error())
	}
	if artifact.LogTransform {
		predictions = timeseries.Expm1(predictions)
	}

	stale := artifact.SeriesChecksum != series.Checksum()
	if stale {
		logrus.WithField("product", series.Product).
			Warn("forecasting: persisted model was trained on a different series")
	}

	result := &domain.ForecastResult{
		Product: series.Product,
		Horizon: horizon,
		Stale:   stale,
	}
	for i, month := range series.FutureMonths(horizon) {
		result.Points = append(result.Points, domain.ForecastPoint{
			Month:    month.Format(monthLayout),
			Quantity: utils.RoundWithTwoDecimalPlace(math.Max(0, predictions[i])),
		})
	}
	for i := range series.Values {
		result.ActualMonths = append(result.ActualMonths, series.Months[i].Format(monthLayout))
		result.ActualValues = append(result.ActualValues, series.Values[i])
	}
	return result, nil
}

// resolveOrder returns the manual order or runs the automatic search,
// applying the configured fallback policy on search failure.
func (s *Service) resolveOrder(fitSeries *timeseries.MonthlySeries, opts TrainOptions) (arima.Order, bool, error) {
	if !opts.Auto {
		if !opts.Order.Valid() {
			return arima.Order{}, false, newPipelineError(ErrInvalidOrder, fitSeries.Product, "")
		}
		return opts.Order, false, nil
	}

	found, err := autofit.Search(fitSeries.Values, s.search)
	if err != nil {
		if s.orderFallback == config.OrderFallbackDefault {
			logrus.WithError(err).WithField("product", fitSeries.Product).
				Warn("forecasting: order search failed, falling back to default order")
			return defaultOrder, true, nil
		}
		return arima.Order{}, false, newPipelineError(ErrOrderSearch, fitSeries.Product, err.Error())
	}
	return found.Order, true, nil
}

// evaluate fits on the leading split and reports MAPE over the withheld
// months. Zero-valued actuals are skipped; with no usable month the accuracy
// stays nil rather than zero.
func (s *Service) evaluate(series, fitSeries *timeseries.MonthlySeries, order arima.Order) (*float64, int, error) {
	_, rawHoldout := series.Split(s.splitRatio)
	fitTrain, _ := fitSeries.Split(s.splitRatio)

	if rawHoldout.Len() == 0 {
		return nil, 0, nil
	}

	model, err := arima.Fit(fitTrain.Values, order)
	if err != nil {
		return nil, 0, newPipelineError(ErrFit, series.Product, err.Error())
	}

	predictions, err := model.Predict(rawHoldout.Len())
	if err != nil {
		return nil, 0, newPipelineError(ErrFit, series.Product, err.Error())
	}
	if s.logTransform {
		predictions = timeseries.Expm1(predictions)
	}

	sum := 0.0
	count := 0
	for i, actual := range rawHoldout.Values {
		if actual == 0 {
			continue
		}
		sum += math.Abs(actual-predictions[i]) / actual
		count++
	}
	if count == 0 {
		return nil, rawHoldout.Len(), nil
	}

	mape := sum / float64(count) * 100
	if math.IsNaN(mape) || math.IsInf(mape, 0) {
		return nil, rawHoldout.Len(), nil
	}
	return &mape, rawHoldout.Len(), nil
}

func (s *Service) recordRun(result *domain.TrainingResult) {
	if s.runRepo == nil {
		return
	}
	err := s.runRepo.Record(&domain.TrainingRun{
		Product:      result.Product,
		Order:        result.Order,
		AutoSelected: result.AutoSelected,
		LogTransform: result.LogTransform,
		Accuracy:     result.Accuracy,
		DurationMS:   result.DurationMS,
	})
	if err != nil {
		// History is best-effort; a failed insert must not fail training.
		logrus.WithError(err).WithField("product", result.Product).
			Error("forecasting: recording training run failed")
	}
}
