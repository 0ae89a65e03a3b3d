// Package scheduler runs the periodic model retraining against the sales
// history kept in Postgres.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/awidars/stock-forecast-api/infrastructure/repository"
	"github.com/awidars/stock-forecast-api/internal/config"
	"github.com/awidars/stock-forecast-api/internal/forecast/timeseries"
	"github.com/awidars/stock-forecast-api/internal/usecases/forecasting"
)

// RetrainSyncConfig holds the scheduling knobs for the retrain job.
type RetrainSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// RetrainSyncService retrains every product found in the sales history on a
// cron schedule, keeping the persisted models aligned with the stored data.
type RetrainSyncService struct {
	scheduler *gocron.Scheduler
	config    RetrainSyncConfig

	salesRepo repository.SalesHistoryRepository
	pipeline  forecasting.Pipeline

	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncRetrained   int
	lastSyncFailed      int
}

func NewRetrainSyncService(
	salesRepo repository.SalesHistoryRepository,
	pipeline forecasting.Pipeline,
	appConfig *config.Config,
) *RetrainSyncService {
	syncConfig := RetrainSyncConfig{
		CronSchedule: appConfig.RetrainSync.CronSchedule,
		SyncEnabled:  appConfig.RetrainSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"sync_enabled":  syncConfig.SyncEnabled,
	}).Info("retrain scheduler configuration loaded")

	return &RetrainSyncService{
		scheduler: scheduler,
		config:    syncConfig,
		salesRepo: salesRepo,
		pipeline:  pipeline,
	}
}

// Start schedules the retrain job and stops the scheduler when the context
// is cancelled.
func (s *RetrainSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("model retrain sync disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("starting model retrain scheduler")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.retrainAllProducts()
	})
	if err != nil {
		return fmt.Errorf("scheduling model retrain: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("stopping model retrain scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

// retrainAllProducts rebuilds each product's series from the sales history
// and retrains its model with the automatic order search.
func (s *RetrainSyncService) retrainAllProducts() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("model retrain already in progress, skipping")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	startTime := time.Now()
	s.lastSyncStartedAt = startTime

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	logrus.Info("starting model retrain for all products in the sales history")

	products, err := s.salesRepo.ListProducts()
	if err != nil {
		logrus.WithError(err).Error("listing products for model retrain")
		return
	}

	if len(products) == 0 {
		logrus.Info("no products in the sales history, nothing to retrain")
		return
	}

	retrained := 0
	failed := 0
	for _, product := range products {
		if err := s.retrainProduct(product); err != nil {
			logrus.WithError(err).WithField("product", product).Error("retraining product")
			failed++
			continue
		}
		retrained++
	}

	s.lastSyncRetrained = retrained
	s.lastSyncFailed = failed
	s.lastSyncCompletedAt = time.Now()

	logrus.WithFields(logrus.Fields{
		"duration":  time.Since(startTime).String(),
		"products":  len(products),
		"retrained": retrained,
		"failed":    failed,
	}).Info("model retrain completed")
}

func (s *RetrainSyncService) retrainProduct(product string) error {
	records, err := s.salesRepo.GetRecords(product)
	if err != nil {
		return fmt.Errorf("loading sales history: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no sales history rows")
	}

	observations := make([]timeseries.Observation, 0, len(records))
	for _, rec := range records {
		observations = append(observations, timeseries.Observation{
			Month: rec.Month,
			Value: rec.Quantity,
		})
	}
	series := timeseries.Resample(product, observations)

	_, err = s.pipeline.Train(series, forecasting.TrainOptions{
		Auto:     true,
		Evaluate: true,
	})
	return err
}

// TriggerManualSync starts a retrain outside the schedule. It returns
// immediately; progress shows up in Status.
func (s *RetrainSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("model retrain already in progress, ignoring manual trigger")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("starting manual model retrain")
	go s.retrainAllProducts()
}

// GetStatus reports the scheduler state for the status endpoint.
func (s *RetrainSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	running := s.syncRunning
	s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           running,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_retrained":    s.lastSyncRetrained,
		"last_sync_failed":       s.lastSyncFailed,
	}
}
