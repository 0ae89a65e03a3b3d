package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/awidars/stock-forecast-api/internal/scheduler"
	"github.com/awidars/stock-forecast-api/pkg/apiErrors"
)

const (
	CronJobTypeRetrain = "retrain"
)

// CronJobServices holds the schedulers that can be triggered manually.
type CronJobServices struct {
	RetrainSyncService *scheduler.RetrainSyncService
}

// RunCronJob triggers a cron job outside its schedule.
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "cron job type not specified", nil)
			return
		}

		switch cronType {
		case CronJobTypeRetrain:
			if services.RetrainSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "retrain service not available", nil)
				return
			}
			services.RetrainSyncService.TriggerManualSync()

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "invalid cron job type, accepted values: retrain", nil)
			return
		}

		json.NewEncoder(w).Encode(map[string]any{
			"message": "cron job started",
			"type":    cronType,
		})
	}
}

// GetCronStatus reports the state of the schedulers.
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetCronStatus")

		status := map[string]any{}
		if services.RetrainSyncService != nil {
			status["retrain"] = services.RetrainSyncService.GetStatus()
		}

		json.NewEncoder(w).Encode(status)
	}
}
