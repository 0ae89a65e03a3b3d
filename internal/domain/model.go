package domain

import (
	"strings"
	"time"

	"github.com/awidars/stock-forecast-api/internal/forecast/arima"
)

// ModelArtifact is the persisted state of a trained model for one product:
// the serialized fit plus the metadata needed to forecast and to detect
// staleness against a re-uploaded series.
type ModelArtifact struct {
	Product        string      `json:"product"`
	Order          arima.Order `json:"order"`
	AutoSelected   bool        `json:"auto_selected"`
	LogTransform   bool        `json:"log_transform"`
	LastMonth      time.Time   `json:"last_month"`
	SeriesChecksum string      `json:"series_checksum"`
	TrainedAt      time.Time   `json:"trained_at"`
	Payload        []byte      `json:"-"`
}

// ModelKey derives the store key for a product name, replacing spaces with
// underscores the way the persisted filenames do.
func ModelKey(product string) string {
	return strings.ReplaceAll(strings.TrimSpace(product), " ", "_")
}

// ModelInfo is the listing view of a persisted model.
type ModelInfo struct {
	Product      string      `json:"product"`
	Order        arima.Order `json:"order"`
	LogTransform bool        `json:"log_transform"`
	LastMonth    string      `json:"last_month"`
	TrainedAt    time.Time   `json:"trained_at"`
}

// TrainingResult is returned by the trainer: the persisted artifact metadata
// plus the holdout accuracy, when a holdout existed.
type TrainingResult struct {
	Product       string      `json:"product"`
	Order         arima.Order `json:"order"`
	AutoSelected  bool        `json:"auto_selected"`
	LogTransform  bool        `json:"log_transform"`
	Accuracy      *float64    `json:"accuracy_mape,omitempty"` // percent, nil when no holdout
	HoldoutMonths int         `json:"holdout_months"`
	TrainedAt     time.Time   `json:"trained_at"`
	DurationMS    int64       `json:"duration_ms"`
}

// TrainingRun is the repository row recorded for each completed training,
// feeding the dashboard's history view.
type TrainingRun struct {
	ID           int64       `json:"id"`
	Product      string      `json:"product"`
	Order        arima.Order `json:"order"`
	AutoSelected bool        `json:"auto_selected"`
	LogTransform bool        `json:"log_transform"`
	Accuracy     *float64    `json:"accuracy_mape,omitempty"`
	DurationMS   int64       `json:"duration_ms"`
	CreatedAt    time.Time   `json:"created_at"`
}

// StationarityReport is the advisory output of the unit-root check.
type StationarityReport struct {
	Product      string  `json:"product"`
	Statistic    float64 `json:"statistic"`
	PValue       float64 `json:"p_value"`
	Lags         int     `json:"lags"`
	IsStationary bool    `json:"is_stationary"`
	Advice       string  `json:"advice"`
}
