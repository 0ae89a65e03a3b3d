package handler

import (
	"encoding/json"
	"net/http"

	"github.com/awidars/stock-forecast-api/internal/session"
	"github.com/awidars/stock-forecast-api/internal/usecases/forecasting"
	"github.com/awidars/stock-forecast-api/pkg/apiErrors"
)

type ForecastRequest struct {
	Horizon int `json:"horizon"`
}

// Forecast predicts the next months for one product from its persisted
// model. The forecast starts the month after the series' last month.
func Forecast(sessions *session.Store, pipeline forecasting.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		series, ok := resolveSeries(w, r, sessions, pipeline)
		if !ok {
			return
		}

		var req ForecastRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "invalid request body", nil)
			return
		}

		result, err := pipeline.Forecast(series, req.Horizon)
		if err != nil {
			writePipelineError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}
