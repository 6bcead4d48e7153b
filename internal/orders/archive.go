// Package orders persists completed checkouts. The archive is append-mostly;
// orders are written once at checkout and read back for history views.
package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/agrios/cartedge/internal/domain"
	"github.com/agrios/cartedge/pkg/database"
	apperrors "github.com/agrios/cartedge/pkg/errors"
)

// Archive implements order persistence using PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE orders (
//	    id             TEXT PRIMARY KEY,
//	    user_id        TEXT NOT NULL,
//	    items          JSONB NOT NULL,
//	    subtotal       BIGINT NOT NULL,
//	    tax            BIGINT NOT NULL,
//	    total          BIGINT NOT NULL,
//	    clear_failures JSONB,
//	    created_at     TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX orders_user_id_idx ON orders (user_id, created_at DESC);
type Archive struct {
	pool database.DBTX
}

// NewArchive creates a PostgreSQL-backed order archive.
func NewArchive(pool database.DBTX) *Archive {
	return &Archive{pool: pool}
}

// SaveOrder inserts a completed order.
func (a *Archive) SaveOrder(ctx context.Context, order domain.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}

	var failuresJSON []byte
	if len(order.ClearFailures) > 0 {
		failuresJSON, err = json.Marshal(order.ClearFailures)
		if err != nil {
			return fmt.Errorf("marshal clear failures: %w", err)
		}
	}

	query := `
		INSERT INTO orders (
			id, user_id, items,
			subtotal, tax, total,
			clear_failures, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = a.pool.Exec(ctx, query,
		order.ID,
		order.UserID,
		itemsJSON,
		order.Subtotal,
		order.Tax,
		order.Total,
		failuresJSON,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

// GetOrder retrieves a single order by ID.
func (a *Archive) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, user_id, items, subtotal, tax, total, clear_failures, created_at
		FROM orders
		WHERE id = $1`

	order, err := a.scanOrder(a.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// ListOrders returns a user's orders, newest first.
func (a *Archive) ListOrders(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, user_id, items, subtotal, tax, total, clear_failures, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := a.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := a.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

func (a *Archive) scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		order        domain.Order
		itemsJSON    []byte
		failuresJSON []byte
	)

	if err := row.Scan(
		&order.ID,
		&order.UserID,
		&itemsJSON,
		&order.Subtotal,
		&order.Tax,
		&order.Total,
		&failuresJSON,
		&order.CreatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if order.Items == nil {
		order.Items = []domain.LineItem{}
	}

	if failuresJSON != nil && string(failuresJSON) != "null" {
		if err := json.Unmarshal(failuresJSON, &order.ClearFailures); err != nil {
			return nil, fmt.Errorf("unmarshal clear failures: %w", err)
		}
	}

	return &order, nil
}
