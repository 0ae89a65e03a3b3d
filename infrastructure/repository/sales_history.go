package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/awidars/stock-forecast-api/infrastructure/database/postgres"
	"github.com/awidars/stock-forecast-api/internal/domain"
)

// Table sales_history: one row per (product, month) observation, upserted on
// every upload so the retrain scheduler can rebuild series without a live
// session.
//
//	CREATE TABLE sales_history (
//	    id         BIGSERIAL PRIMARY KEY,
//	    product    TEXT NOT NULL,
//	    month      DATE NOT NULL,
//	    quantity   DOUBLE PRECISION NOT NULL,
//	    upload_id  TEXT NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    UNIQUE (product, month)
//	);
const salesHistoryTable = "sales_history"

type SalesHistoryRepository interface {
	SaveTable(uploadID string, table *domain.SalesTable) error
	ListProducts() ([]string, error)
	GetRecords(product string) ([]domain.SalesRecord, error)
}

type salesHistoryRepository struct {
	conn *postgres.Connection
}

func NewSalesHistoryRepository(conn *postgres.Connection) SalesHistoryRepository {
	return &salesHistoryRepository{conn: conn}
}

func (r *salesHistoryRepository) SaveTable(uploadID string, table *domain.SalesTable) error {
	for _, rec := range table.Records {
		query, args, err := squirrel.
			Insert(salesHistoryTable).
			Columns("product", "month", "quantity", "upload_id").
			Values(rec.Product, rec.Month.Format(time.DateOnly), rec.Quantity, uploadID).
			Suffix(`
				ON CONFLICT (product, month) DO UPDATE SET
					quantity = EXCLUDED.quantity,
					upload_id = EXCLUDED.upload_id,
					updated_at = NOW()
			`).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("building upsert query: %w", err)
		}

		if _, err := r.conn.Exec(query, args...); err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
			}
			return fmt.Errorf("saving sales row: %w", err)
		}
	}
	return nil
}

func (r *salesHistoryRepository) ListProducts() ([]string, error) {
	query, args, err := squirrel.
		Select("DISTINCT product").
		From(salesHistoryTable).
		OrderBy("product ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}
	return products, nil
}

func (r *salesHistoryRepository) GetRecords(product string) ([]domain.SalesRecord, error) {
	query, args, err := squirrel.
		Select("product", "month", "quantity").
		From(salesHistoryTable).
		Where(squirrel.Eq{"product": product}).
		OrderBy("month ASC").
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
		return nil, fmt.Errorf("querying sales history: %w", err)
	}
	defer rows.Close()

	var records []domain.SalesRecord
	for rows.Next() {
		var rec domain.SalesRecord
		if err := rows.Scan(&rec.Product, &rec.Month, &rec.Quantity); err != nil {
			return nil, fmt.Errorf("scanning sales row: %w", err)
		}
		rec.Month = rec.Month.UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sales rows: %w", err)
	}
	return records, nil
}
