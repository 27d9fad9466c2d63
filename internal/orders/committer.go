package orders

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hassan3208/Rangista-Backend/internal/catalog"
	"github.com/hassan3208/Rangista-Backend/internal/users"
)

// Committer converts a user's cart into a durable order in one transaction.
// Stock is never touched here: the units were reserved when the entries were
// carted, and the reservation simply changes owner from cart to order.
type Committer struct {
	DB    *pgxpool.Pool
	Users *users.Repo
}

// CreateOrderFromCart drains the user's cart into a new pending order and
// returns the user's refreshed order list. Product existence is re-checked
// before any row is written; a retired product fails the whole call and
// leaves cart, stock and orders exactly as they were.
func (c *Committer) CreateOrderFromCart(ctx context.Context, userID int64, orderTime time.Time) ([]View, error) {
	if err := c.Users.Exists(ctx, userID); err != nil {
		return nil, err
	}

	tx, err := c.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Cart rows first, product rows second, products in ascending id order:
	// the same order every writer uses, so concurrent cart edits cannot
	// deadlock against a commit.
	rows, err := tx.Query(ctx, `
		SELECT product_id, size, quantity FROM cart
		WHERE user_id=$1
		ORDER BY product_id, size
		FOR UPDATE`, userID)
	if err != nil {
		return nil, err
	}
	var entries []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ProductID, &it.Size, &it.Quantity); err != nil {
			rows.Close()
			return nil, err
		}
		entries = append(entries, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrCartEmpty
	}

	if err := c.checkProductsExist(ctx, tx, entries); err != nil {
		return nil, err
	}

	orderID := uuid.NewString()
	if _, err := tx.Exec(ctx, `
		INSERT INTO orders(id, user_id, status, created_at)
		VALUES ($1,$2,$3,$4)`,
		orderID, userID, StatusPending, orderTime); err != nil {
		return nil, err
	}
	for _, it := range entries {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items(order_id, product_id, size, quantity)
			VALUES ($1,$2,$3,$4)`,
			orderID, it.ProductID, it.Size, it.Quantity); err != nil {
			return nil, err
		}
	}
	if _, err := tx.Exec(ctx, `DELETE FROM cart WHERE user_id=$1`, userID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return c.ListUserOrders(ctx, userID)
}

// checkProductsExist verifies every referenced product is still in the
// catalog, taking share locks in ascending id order.
func (c *Committer) checkProductsExist(ctx context.Context, tx pgx.Tx, entries []Item) error {
	ids := make([]string, 0, len(entries))
	seen := map[string]bool{}
	for _, it := range entries {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	sort.Strings(ids)

	for _, id := range ids {
		var one int
		err := tx.QueryRow(ctx, `SELECT 1 FROM products WHERE id=$1 FOR SHARE`, id).Scan(&one)
		if errors.Is(err, pgx.ErrNoRows) {
			return &catalog.ProductNotFoundError{ProductID: id}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// UpdateStatus moves an order along the fulfillment state machine, rejecting
// transitions the machine does not allow.
func (c *Committer) UpdateStatus(ctx context.Context, orderID string, to Status) (View, error) {
	if !to.Valid() {
		return View{}, ErrInvalidTransition
	}

	tx, err := c.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return View{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var from Status
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, orderID).Scan(&from)
	if errors.Is(err, pgx.ErrNoRows) {
		return View{}, ErrOrderNotFound
	}
	if err != nil {
		return View{}, err
	}
	if !CanTransition(from, to) {
		return View{}, ErrInvalidTransition
	}
	if _, err := tx.Exec(ctx, `UPDATE orders SET status=$2 WHERE id=$1`, orderID, to); err != nil {
		return View{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return View{}, err
	}
	return c.GetOrder(ctx, orderID)
}
