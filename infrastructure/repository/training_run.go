package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/awidars/stock-forecast-api/infrastructure/database/postgres"
	"github.com/awidars/stock-forecast-api/internal/domain"
)

// Table training_runs: one row per completed training, for the dashboard's
// history view.
//
//	CREATE TABLE training_runs (
//	    id            BIGSERIAL PRIMARY KEY,
//	    product       TEXT NOT NULL,
//	    p             INT NOT NULL,
//	    d             INT NOT NULL,
//	    q             INT NOT NULL,
//	    auto_selected BOOLEAN NOT NULL,
//	    log_transform BOOLEAN NOT NULL,
//	    accuracy_mape DOUBLE PRECISION,
//	    duration_ms   BIGINT NOT NULL,
//	    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
const trainingRunsTable = "training_runs"

type TrainingRunRepository interface {
	Record(run *domain.TrainingRun) error
	ListByProduct(product string, limit uint64) ([]*domain.TrainingRun, error)
}

type trainingRunRepository struct {
	conn *postgres.Connection
}

func NewTrainingRunRepository(conn *postgres.Connection) TrainingRunRepository {
	return &trainingRunRepository{conn: conn}
}

func (r *trainingRunRepository) Record(run *domain.TrainingRun) error {
	query, args, err := squirrel.
		Insert(trainingRunsTable).
		Columns("product", "p", "d", "q", "auto_selected", "log_transform", "accuracy_mape", "duration_ms").
		Values(
			run.Product,
			run.Order.P,
			run.Order.D,
			run.Order.Q,
			run.AutoSelected,
			run.LogTransform,
			run.Accuracy,
			run.DurationMS,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("recording training run: %w", err)
	}
	return nil
}

func (r *trainingRunRepository) ListByProduct(product string, limit uint64) ([]*domain.TrainingRun, error) {
	if limit == 0 {
		limit = 20
	}

	query, args, err := squirrel.
		Select("id", "product", "p", "d", "q", "auto_selected", "log_transform", "accuracy_mape", "duration_ms", "created_at").
		From(trainingRunsTable).
		Where(squirrel.Eq{"product": product}).
		OrderBy("created_at DESC").
		Limit(limit).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying training runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.TrainingRun
	for rows.Next() {
		run := &domain.TrainingRun{}
		var accuracy sql.NullFloat64
		if err := rows.Scan(
			&run.ID,
			&run.Product,
			&run.Order.P,
			&run.Order.D,
			&run.Order.Q,
			&run.AutoSelected,
			&run.LogTransform,
			&accuracy,
			&run.DurationMS,
			&run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning training run: %w", err)
		}
		if accuracy.Valid {
			run.Accuracy = &accuracy.Float64
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating training runs: %w", err)
	}
	return runs, nil
}
