package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/awidars/stock-forecast-api/internal/forecast/timeseries"
	"github.com/awidars/stock-forecast-api/internal/session"
	"github.com/awidars/stock-forecast-api/internal/usecases/forecasting"
	"github.com/awidars/stock-forecast-api/pkg/apiErrors"
	"github.com/awidars/stock-forecast-api/pkg/utils"
)

type SeriesResponse struct {
	Product string    `json:"product"`
	Months  []string  `json:"months"`
	Values  []float64 `json:"values"`
}

// ListProducts returns the distinct products of an upload session.
func ListProducts(sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		upload, ok := resolveUpload(w, r, sessions)
		if !ok {
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"upload_id": upload.ID,
			"products":  upload.Table.Products(),
		})
	}
}

// GetSeries returns the resampled monthly series for one product.
func GetSeries(sessions *session.Store, pipeline forecasting.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		series, ok := resolveSeries(w, r, sessions, pipeline)
		if !ok {
			return
		}

		resp := SeriesResponse{Product: series.Product, Values: series.Values}
		for _, m := range series.Months {
			resp.Months = append(resp.Months, utils.FormatMonth(m))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

// GetStationarity runs the advisory stationarity check on one product.
func GetStationarity(sessions *session.Store, pipeline forecasting.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		series, ok := resolveSeries(w, r, sessions, pipeline)
		if !ok {
			return
		}

		report, err := pipeline.CheckStationarity(series)
		if err != nil {
			writePipelineError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(report)
	}
}

// resolveUpload looks up the session by the :id path parameter.
func resolveUpload(w http.ResponseWriter, r *http.Request, sessions *session.Store) (*session.Upload, bool) {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")
	if id == "" {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "upload id is required", nil)
		return nil, false
	}

	upload, err := sessions.Get(id)
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrUploadNotFound, "upload not found or expired", nil)
		return nil, false
	}
	return upload, true
}

// resolveSeries resolves the session and builds the product's series.
func resolveSeries(
	w http.ResponseWriter,
	r *http.Request,
	sessions *session.Store,
	pipeline forecasting.Pipeline,
) (*timeseries.MonthlySeries, bool) {
	upload, ok := resolveUpload(w, r, sessions)
	if !ok {
		return nil, false
	}

	product := httprouter.ParamsFromContext(r.Context()).ByName("product")
	if product == "" {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "product is required", nil)
		return nil, false
	}

	series, err := pipeline.BuildSeries(upload.Table, product)
	if err != nil {
		writePipelineError(w, err)
		return nil, false
	}
	return series, true
}

// writePipelineError maps pipeline errors to the API error taxonomy.
func writePipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, forecasting.ErrEmptySeries):
		apiErrors.WriteError(w, apiErrors.ErrEmptySeries, err.Error(), nil)
	case errors.Is(err, forecasting.ErrSeriesTooShort):
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, err.Error(), nil)
	case errors.Is(err, forecasting.ErrInvalidOrder):
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
	case errors.Is(err, forecasting.ErrOrderSearch):
		apiErrors.WriteError(w, apiErrors.ErrOrderSearch, err.Error(), nil)
	case errors.Is(err, forecasting.ErrFit):
		apiErrors.WriteError(w, apiErrors.ErrModelFit, err.Error(), nil)
	case errors.Is(err, forecasting.ErrUntrained):
		apiErrors.WriteError(w, apiErrors.ErrModelNotFound, err.Error(), nil)
	case errors.Is(err, forecasting.ErrForecast):
		apiErrors.WriteError(w, apiErrors.ErrForecast, err.Error(), nil)
	default:
		logrus.WithError(err).Error("unhandled pipeline error")
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "internal server error", nil)
	}
}
