package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/retailmetrics/superstore-analytics/internal/domain"
)

// OrderRepo implements order persistence against PostgreSQL.
type OrderRepo struct{ db *sql.DB }

// NewOrderRepo creates a Postgres-backed order repository.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// CreateSchema creates the orders table and its query indexes if they
// don't exist yet.
func (r *OrderRepo) CreateSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id            BIGSERIAL PRIMARY KEY,
			order_id      TEXT NOT NULL,
			order_date    DATE NOT NULL,
			customer_id   TEXT NOT NULL,
			customer_name TEXT NOT NULL DEFAULT '',
			segment       TEXT NOT NULL DEFAULT '',
			region        TEXT NOT NULL DEFAULT '',
			category      TEXT NOT NULL DEFAULT '',
			sub_category  TEXT NOT NULL DEFAULT '',
			sales         DOUBLE PRECISION NOT NULL,
			profit        DOUBLE PRECISION NOT NULL,
			discount      DOUBLE PRECISION NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_order_date ON orders(order_date)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_region ON orders(region)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders(customer_id)`,
	}
	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// Truncate removes all rows, used before a fresh bulk load.
func (r *OrderRepo) Truncate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `TRUNCATE orders`); err != nil {
		return fmt.Errorf("truncate orders: %w", err)
	}
	return nil
}

// Count returns the number of order rows.
func (r *OrderRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

// Load reads orders matching the filter, oldest first. A zero filter
// loads the whole table.
func (r *OrderRepo) Load(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	q := `
		SELECT order_id, order_date, customer_id, customer_name, segment,
		       region, category, sub_category, sales, profit, discount
		FROM orders
		WHERE 1=1`

	var args []interface{}
	idx := 1
	if f.From != nil {
		q += fmt.Sprintf(" AND order_date >= $%d", idx)
		args = append(args, *f.From)
		idx++
	}
	if f.To != nil {
		q += fmt.Sprintf(" AND order_date <= $%d", idx)
		args = append(args, *f.To)
		idx++
	}
	if len(f.Regions) > 0 {
		q += fmt.Sprintf(" AND region = ANY($%d)", idx)
		args = append(args, pq.Array(f.Regions))
		idx++
	}
	if len(f.Categories) > 0 {
		q += fmt.Sprintf(" AND category = ANY($%d)", idx)
		args = append(args, pq.Array(f.Categories))
		idx++
	}
	q += " ORDER BY order_date, order_id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		var orderDate time.Time
		if err := rows.Scan(
			&o.OrderID, &orderDate, &o.CustomerID, &o.CustomerName, &o.Segment,
			&o.Region, &o.Category, &o.SubCategory, &o.Sales, &o.Profit, &o.Discount,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.OrderDate = orderDate.UTC()
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

// BulkInsert loads orders through the Postgres COPY protocol in a
// single transaction. Returns the number of rows written.
func (r *OrderRepo) BulkInsert(ctx context.Context, orders []domain.Order) (int, error) {
	if len(orders) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin bulk insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("orders",
		"order_id", "order_date", "customer_id", "customer_name", "segment",
		"region", "category", "sub_category", "sales", "profit", "discount",
	))
	if err != nil {
		return 0, fmt.Errorf("prepare copy: %w", err)
	}

	for _, o := range orders {
		if _, err := stmt.ExecContext(ctx,
			o.OrderID, o.OrderDate, o.CustomerID, o.CustomerName, o.Segment,
			o.Region, o.Category, o.SubCategory, o.Sales, o.Profit, o.Discount,
		); err != nil {
			stmt.Close()
			return 0, fmt.Errorf("copy row: %w", err)
		}
	}

	// Flush the COPY buffer.
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return 0, fmt.Errorf("flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return 0, fmt.Errorf("close copy: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit bulk insert: %w", err)
	}
	return len(orders), nil
}
