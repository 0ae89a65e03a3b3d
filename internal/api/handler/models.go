package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/awidars/stock-forecast-api/infrastructure/modelstore"
	"github.com/awidars/stock-forecast-api/infrastructure/repository"
	"github.com/awidars/stock-forecast-api/internal/domain"
	"github.com/awidars/stock-forecast-api/pkg/apiErrors"
)

// trainingRunHistoryLimit caps the history returned per product.
const trainingRunHistoryLimit = 20

// ListModels returns the metadata of every persisted model artifact.
func ListModels(store modelstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		infos, err := store.List()
		if err != nil {
			logrus.WithError(err).Error("listing model artifacts")
			apiErrors.WriteError(w, apiErrors.ErrModelPersistence, "could not list models", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"models": infos,
		})
	}
}

// DeleteModel removes the persisted model for one product.
func DeleteModel(store modelstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product := httprouter.ParamsFromContext(r.Context()).ByName("product")
		if product == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "product is required", nil)
			return
		}

		err := store.Delete(product)
		if errors.Is(err, modelstore.ErrNotFound) {
			apiErrors.WriteError(w, apiErrors.ErrModelNotFound, "no trained model for product", nil)
			return
		}
		if err != nil {
			logrus.WithError(err).WithField("product", product).Error("deleting model artifact")
			apiErrors.WriteError(w, apiErrors.ErrModelPersistence, "could not delete model", nil)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// TrainingRuns returns the recorded training history for one product, newest
// first. Without a database the history is empty.
func TrainingRuns(runRepo repository.TrainingRunRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product := httprouter.ParamsFromContext(r.Context()).ByName("product")
		if product == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "product is required", nil)
			return
		}

		runs := []*domain.TrainingRun{}
		if runRepo != nil {
			var err error
			runs, err = runRepo.ListByProduct(product, trainingRunHistoryLimit)
			if err != nil {
				logrus.WithError(err).WithField("product", product).Error("listing training runs")
				apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "could not list training runs", nil)
				return
			}
			if runs == nil {
				runs = []*domain.TrainingRun{}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"runs": runs,
		})
	}
}
