package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fieldtech/workorder-be/internal/api/domain"
	"github.com/fieldtech/workorder-be/internal/api/model"
	"github.com/fieldtech/workorder-be/shared/postgresql"
	"github.com/jmoiron/sqlx"
)

type Storage struct {
	db *sqlx.DB
}

func NewStorage(pg *postgresql.Client) *Storage {
	return &Storage{
		db: pg.GetDB(),
	}
}

func (s *Storage) CreateWorkOrder(ctx context.Context, record *model.WorkOrderRecord) error {
	query := `
		INSERT INTO work_orders (
			work_order_id, customer_name, customer_email,
			work_performed, signature_url, created_at
		) VALUES (
			$1, $2, $3,
			$4, $5, $6
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		record.WorkOrderID,
		record.CustomerName,
		record.CustomerEmail,
		record.WorkPerformed,
		record.SignatureURL,
		record.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create work order: %w", err)
	}

	return nil
}

func (s *Storage) GetWorkOrderByID(ctx context.Context, workOrderID string) (*model.WorkOrderRecord, error) {
	var record model.WorkOrderRecord
	query := `
		SELECT
			work_order_id, customer_name, customer_email,
			work_performed, signature_url, created_at
		FROM work_orders
		WHERE work_order_id = $1
	`

	err := s.db.GetContext(ctx, &record, query, workOrderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrWorkOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}

	return &record, nil
}

type WorkOrderFilter struct {
	CustomerEmail string
	PageSize      int
	Cursor        *WorkOrderCursor
}

type WorkOrderCursor struct {
	CreatedAt   time.Time
	WorkOrderID string
}

func (s *Storage) ListWorkOrders(ctx context.Context, filter WorkOrderFilter) ([]model.WorkOrderRecord, error) {
	query := `
        SELECT
            work_order_id, customer_name, customer_email,
            work_performed, signature_url, created_at
        FROM work_orders
        WHERE 1=1
    `
	args := []interface{}{}
	argIdx := 1

	if filter.CustomerEmail != "" {
		query += fmt.Sprintf(" AND customer_email = $%d", argIdx)
		args = append(args, filter.CustomerEmail)
		argIdx++
	}

	if filter.Cursor != nil {
		query += fmt.Sprintf(" AND (created_at, work_order_id) < ($%d, $%d)", argIdx, argIdx+1)
		args = append(args, filter.Cursor.CreatedAt, filter.Cursor.WorkOrderID)
		argIdx += 2
	}

	// Keyset ordering keeps pagination stable while new rows arrive
	query += " ORDER BY created_at DESC, work_order_id DESC"

	// Fetch one extra row to determine if there are more results
	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, filter.PageSize+1)

	var records []model.WorkOrderRecord
	err := s.db.SelectContext(ctx, &records, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}

	return records, nil
}
