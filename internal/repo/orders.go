package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// OrdersRepo stores orders in a single table, items serialized as a JSONB
// blob next to the scalar columns. Listing follows insertion order.
type OrdersRepo struct {
	table
}

func NewOrdersRepo(pool DB) *OrdersRepo {
	return &OrdersRepo{table: table{Pool: pool, qTimeout: defaultQueryTimeout}}
}

func NewOrdersRepoWith(pool DB, qTimeout time.Duration) *OrdersRepo {
	return &OrdersRepo{table: table{Pool: pool, qTimeout: qTimeout}}
}

func (r *OrdersRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.exec(ctx, "orders schema", qCreateOrdersTable)
	return err
}

func (r *OrdersRepo) CreateOrder(ctx context.Context, userID string, items []Item, total float64) (Order, error) {
	blob, err := json.Marshal(items)
	if err != nil {
		return Order{}, fmt.Errorf("encode items: %w", err)
	}
	o := Order{ID: newID(), UserID: userID, Items: items, TotalAmount: total}
	if _, err := r.exec(ctx, "insert order", qInsertOrder, o.ID, o.UserID, string(blob), o.TotalAmount); err != nil {
		return Order{}, err
	}
	return o.Clone(), nil
}

func (r *OrdersRepo) GetOrder(ctx context.Context, id string) (Order, error) {
	if !validID(id) {
		return Order{}, ErrNotFound
	}
	ctxT, cancel := r.withQ(ctx)
	defer cancel()

	o, err := scanOrder(r.Pool.QueryRow(ctxT, qOrder, id))
	if errorsIsNoRows(err) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("getOrder: %w", err)
	}
	return o, nil
}

func (r *OrdersRepo) ListOrders(ctx context.Context) ([]Order, error) {
	return r.list(ctx, "listOrders", qOrders)
}

// ListRecentOrders returns up to limit orders, newest first.
func (r *OrdersRepo) ListRecentOrders(ctx context.Context, limit int) ([]Order, error) {
	if limit <= 0 {
		return []Order{}, nil
	}
	return r.list(ctx, "listRecent", qRecentOrders, limit)
}

func (r *OrdersRepo) list(ctx context.Context, op, sql string, args ...any) ([]Order, error) {
	ctxT, cancel := r.withQ(ctx)
	defer cancel()

	rows, err := r.Pool.Query(ctxT, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s query: %w", op, err)
	}
	defer rows.Close()

	orders := make([]Order, 0, defaultListCap)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s rows: %w", op, err)
	}
	return orders, nil
}

// Clear removes every order. Test isolation only; an OrdersCache in front
// of this table keeps serving cleared orders until it is Reset.
func (r *OrdersRepo) Clear(ctx context.Context) error {
	_, err := r.exec(ctx, "clear orders", qClearOrders)
	return err
}

func (r *OrdersRepo) Ping(ctx context.Context) error { return r.ping(ctx) }

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o    Order
		blob []byte
	)
	if err := row.Scan(&o.ID, &o.UserID, &blob, &o.TotalAmount); err != nil {
		return Order{}, err
	}
	o.Items = make([]Item, 0, defaultItemsCap)
	if err := json.Unmarshal(blob, &o.Items); err != nil {
		return Order{}, fmt.Errorf("decode items: %w", err)
	}
	return o, nil
}
