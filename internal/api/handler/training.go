package handler

import (
	"encoding/json"
	"net/http"

	"github.com/awidars/stock-forecast-api/internal/forecast/arima"
	"github.com/awidars/stock-forecast-api/internal/session"
	"github.com/awidars/stock-forecast-api/internal/usecases/forecasting"
	"github.com/awidars/stock-forecast-api/pkg/apiErrors"
)

type TrainRequest struct {
	// Auto selects the order by stepwise search; P/D/Q are ignored then.
	Auto bool `json:"auto"`
	P    int  `json:"p"`
	D    int  `json:"d"`
	Q    int  `json:"q"`
	// Evaluate withholds the trailing months and reports MAPE against them.
	// Defaults to true when the body omits it.
	Evaluate *bool `json:"evaluate,omitempty"`
}

// Train fits and persists a model for one product of an upload session.
func Train(sessions *session.Store, pipeline forecasting.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		series, ok := resolveSeries(w, r, sessions, pipeline)
		if !ok {
			return
		}

		var req TrainRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "invalid request body", nil)
			return
		}

		evaluate := true
		if req.Evaluate != nil {
			evaluate = *req.Evaluate
		}

		result, err := pipeline.Train(series, forecasting.TrainOptions{
			Auto:     req.Auto,
			Order:    arima.Order{P: req.P, D: req.D, Q: req.Q},
			Evaluate: evaluate,
		})
		if err != nil {
			writePipelineError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}
