package handler

import (
	"net/http"

	"github.com/awidars/stock-forecast-api/infrastructure/modelstore"
	"github.com/awidars/stock-forecast-api/infrastructure/repository"
	"github.com/awidars/stock-forecast-api/internal/api/handler/router"
	"github.com/awidars/stock-forecast-api/internal/session"
	"github.com/awidars/stock-forecast-api/internal/usecases/authenticating"
	"github.com/awidars/stock-forecast-api/internal/usecases/forecasting"
	"github.com/awidars/stock-forecast-api/internal/usecases/ingesting"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
	}
}

func Uploads(
	loader *ingesting.Loader,
	sessions *session.Store,
	salesRepo repository.SalesHistoryRepository,
	pipeline forecasting.Pipeline,
) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/uploads",
			Method:  http.MethodPost,
			Handler: Upload(loader, sessions, salesRepo),
		},
		{
			Path:    "/v1/uploads/:id/products",
			Method:  http.MethodGet,
			Handler: ListProducts(sessions),
		},
		{
			Path:    "/v1/uploads/:id/products/:product/series",
			Method:  http.MethodGet,
			Handler: GetSeries(sessions, pipeline),
		},
		{
			Path:    "/v1/uploads/:id/products/:product/stationarity",
			Method:  http.MethodGet,
			Handler: GetStationarity(sessions, pipeline),
		},
		{
			Path:    "/v1/uploads/:id/products/:product/train",
			Method:  http.MethodPost,
			Handler: Train(sessions, pipeline),
		},
		{
			Path:    "/v1/uploads/:id/products/:product/forecast",
			Method:  http.MethodPost,
			Handler: Forecast(sessions, pipeline),
		},
	}
}

func Models(store modelstore.Store, runRepo repository.TrainingRunRepository) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/models",
			Method:  http.MethodGet,
			Handler: ListModels(store),
		},
		{
			Path:    "/v1/models/:product",
			Method:  http.MethodDelete,
			Handler: DeleteModel(store),
		},
		{
			Path:    "/v1/models/:product/runs",
			Method:  http.MethodGet,
			Handler: TrainingRuns(runRepo),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}
