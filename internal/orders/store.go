package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ariefcatur/artisan-market/internal/apperr"
)

// PgStore is the transactional Store over Postgres.
type PgStore struct{ DB *pgxpool.Pool }

var _ Store = (*PgStore)(nil)

// CreateOrder locks every referenced product row, re-validates stock under
// the lock, then writes the order, its items and the inventory decrements.
// Any failure rolls the whole thing back; no partial order is ever visible.
func (s *PgStore) CreateOrder(ctx context.Context, buyerID string, items []LineInput, total decimal.Decimal, demand map[string]int) (*Order, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock in sorted id order so concurrent orders over the same products
	// cannot deadlock each other.
	ids := make([]string, 0, len(demand))
	for id := range demand {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	names := make(map[string]string, len(ids))
	for _, id := range ids {
		var name string
		var inventory int
		err := tx.QueryRow(ctx, `SELECT name, inventory FROM products WHERE id=$1 FOR UPDATE`, id).
			Scan(&name, &inventory)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Wrap(apperr.KindBusinessRule,
				fmt.Errorf("%w: %s", ErrProductNotFound, id)).
				WithFields(map[string]any{"product": id})
		}
		if err != nil {
			return nil, err
		}
		if inventory < demand[id] {
			return nil, apperr.Wrap(apperr.KindBusinessRule,
				fmt.Errorf("%w for product %s: requested %d, available %d",
					ErrInsufficientInventory, id, demand[id], inventory)).
				WithFields(map[string]any{
					"product":   id,
					"requested": demand[id],
					"available": inventory,
				})
		}
		names[id] = name
	}

	o := &Order{
		ID:          uuid.NewString(),
		UserID:      buyerID,
		Status:      StatusPending,
		TotalAmount: total,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO orders(id, user_id, status, total_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		o.ID, o.UserID, o.Status, o.TotalAmount).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		if _, err := tx.Exec(ctx,
			`UPDATE products SET inventory = inventory - $2, updated_at = now() WHERE id=$1`,
			id, demand[id]); err != nil {
			return nil, err
		}
	}

	o.Items = make([]Item, 0, len(items))
	for _, it := range items {
		item := Item{
			ID:          uuid.NewString(),
			OrderID:     o.ID,
			ProductID:   it.ProductID,
			ProductName: names[it.ProductID],
			Quantity:    it.Quantity,
			Price:       it.Price,
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items(id, order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4, $5)`,
			item.ID, item.OrderID, item.ProductID, item.Quantity, item.Price); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *PgStore) OrdersByUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, user_id, status, total_amount, created_at, updated_at
		FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Order{}
	index := map[string]int{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		o.Items = []Item{}
		index[o.ID] = len(out)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	orderIDs := make([]string, 0, len(out))
	for id := range index {
		orderIDs = append(orderIDs, id)
	}
	itemRows, err := s.DB.Query(ctx, `
		SELECT i.id, i.order_id, i.product_id, p.name, i.quantity, i.price
		FROM order_items i JOIN products p ON p.id = i.product_id
		WHERE i.order_id = ANY($1::uuid[])`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var it Item
		if err := itemRows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		i := index[it.OrderID]
		out[i].Items = append(out[i].Items, it)
	}
	return out, itemRows.Err()
}

// UpdateStatus applies an admin transition under the order row lock so two
// concurrent transitions cannot both pass the table check.
func (s *PgStore) UpdateStatus(ctx context.Context, orderID string, next Status) (*Order, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current Status
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, orderID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Wrap(apperr.KindNotFound, ErrOrderNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !CanTransition(current, next) {
		return nil, apperr.Wrap(apperr.KindBusinessRule,
			fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, next))
	}
	if _, err := tx.Exec(ctx,
		`UPDATE orders SET status=$2, updated_at=now() WHERE id=$1`, orderID, next); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, orderID)
}

func (s *PgStore) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	err := s.DB.QueryRow(ctx, `
		SELECT id, user_id, status, total_amount, created_at, updated_at
		FROM orders WHERE id=$1`, orderID).
		Scan(&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Wrap(apperr.KindNotFound, ErrOrderNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.Query(ctx, `
		SELECT i.id, i.order_id, i.product_id, p.name, i.quantity, i.price
		FROM order_items i JOIN products p ON p.id = i.product_id
		WHERE i.order_id = $1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	o.Items = []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	return &o, rows.Err()
}
