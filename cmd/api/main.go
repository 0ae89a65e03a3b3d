package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/awidars/stock-forecast-api/infrastructure/database/postgres"
	"github.com/awidars/stock-forecast-api/infrastructure/modelstore"
	"github.com/awidars/stock-forecast-api/infrastructure/repository"
	"github.com/awidars/stock-forecast-api/internal/api"
	"github.com/awidars/stock-forecast-api/internal/config"
	"github.com/awidars/stock-forecast-api/internal/scheduler"
	"github.com/awidars/stock-forecast-api/internal/session"
	"github.com/awidars/stock-forecast-api/internal/usecases/authenticating"
	"github.com/awidars/stock-forecast-api/internal/usecases/forecasting"
	"github.com/awidars/stock-forecast-api/internal/usecases/ingesting"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("invalid log level: %s, using 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("log level set to: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	modelStore, err := modelstore.NewFSStore(cfg.ModelStore.Dir)
	if err != nil {
		logrus.WithError(err).Fatal("initializing model store")
	}

	// Postgres is optional: without it the API works purely from upload
	// sessions, and the retrain scheduler stays off.
	var salesRepo repository.SalesHistoryRepository
	var trainingRunRepo repository.TrainingRunRepository
	if cfg.Database.Enabled {
		pgConn := pgconn(ctx, cfg.Database)
		defer pgConn.Close()

		salesRepo = repository.NewSalesHistoryRepository(pgConn)
		trainingRunRepo = repository.NewTrainingRunRepository(pgConn)
	}

	loader := ingesting.NewLoader(ingesting.Options{
		StrictDates: cfg.Loader.StrictDates,
	})
	sessions := session.NewStore(time.Duration(cfg.Session.TTLMinutes) * time.Minute)
	pipeline := forecasting.NewService(cfg, modelStore, trainingRunRepo)
	authenticator := authenticating.NewService(cfg)

	var retrainSyncService *scheduler.RetrainSyncService
	if salesRepo != nil {
		retrainSyncService = scheduler.NewRetrainSyncService(salesRepo, pipeline, cfg)
		if err := retrainSyncService.Start(ctx); err != nil {
			logrus.WithError(err).Error("starting the model retrain scheduler")
		} else {
			logrus.Info("model retrain scheduler started")
		}
	}

	server, err := api.New(
		cfg,
		loader,
		sessions,
		pipeline,
		modelStore,
		salesRepo,
		trainingRunRepo,
		authenticator,
		retrainSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("connecting to PostgreSQL")
	}

	if err := conn.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("pinging PostgreSQL")
	}

	logrus.Info("PostgreSQL connection established")
	return conn
}
