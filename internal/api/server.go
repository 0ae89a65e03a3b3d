package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"

	"github.com/awidars/stock-forecast-api/infrastructure/modelstore"
	"github.com/awidars/stock-forecast-api/infrastructure/repository"
	"github.com/awidars/stock-forecast-api/internal/api/handler"
	"github.com/awidars/stock-forecast-api/internal/api/handler/router"
	"github.com/awidars/stock-forecast-api/internal/config"
	"github.com/awidars/stock-forecast-api/internal/scheduler"
	"github.com/awidars/stock-forecast-api/internal/session"
	"github.com/awidars/stock-forecast-api/internal/usecases/authenticating"
	"github.com/awidars/stock-forecast-api/internal/usecases/forecasting"
	"github.com/awidars/stock-forecast-api/internal/usecases/ingesting"
	"github.com/awidars/stock-forecast-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Server struct {
	httpServer *http.Server
}

func New(
	config *config.Config,
	loader *ingesting.Loader,
	sessions *session.Store,
	pipeline forecasting.Pipeline,
	modelStore modelstore.Store,
	salesRepo repository.SalesHistoryRepository,
	trainingRunRepo repository.TrainingRunRepository,
	authenticator authenticating.Authenticator,
	retrainSyncService *scheduler.RetrainSyncService,
) (*Server, error) {
	cronServices := handler.CronJobServices{
		RetrainSyncService: retrainSyncService,
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Authentication(authenticator)...),
		router.WithRoutes(handler.Uploads(loader, sessions, salesRepo, pipeline)...),
		router.WithRoutes(handler.Models(modelStore, trainingRunRepo)...),
		router.WithRoutes(handler.CronJobs(cronServices)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(),
		middleware.AuthMiddleware(authenticator),
	}

	chained := alice.New(middlewares...).Then(rt)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           chained,
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("server starting")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("error running the server")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("interrupt signal received")
	case <-ctx.Done():
		logrus.Info("application context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("starting graceful shutdown")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("error during server shutdown")
		return err
	}

	logrus.Info("server stopped")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
