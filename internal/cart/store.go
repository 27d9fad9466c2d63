package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hassan3208/Rangista-Backend/internal/catalog"
	"github.com/hassan3208/Rangista-Backend/internal/stock"
)

// Store keeps the single reservation row per (user, product, size) in sync
// with the stock ledger. Each mutation and its paired ledger call run in one
// transaction: if the ledger rejects, the cart row is untouched.
type Store struct {
	DB     *pgxpool.Pool
	Ledger *stock.Ledger
}

// AddOrUpdate sets the reservation for (user, product, size) to qty, creating
// the row on first add. An existing row is adjusted by the signed delta only.
func (s *Store) AddOrUpdate(ctx context.Context, userID int64, productID string, size catalog.Size, qty int) error {
	if qty < 1 {
		return fmt.Errorf("cart quantity must be at least 1, got %d", qty)
	}
	return s.mutate(ctx, userID, productID, size, qty, true)
}

// UpdateQuantity is AddOrUpdate restricted to existing rows; missing rows fail
// with ErrItemNotFound.
func (s *Store) UpdateQuantity(ctx context.Context, userID int64, productID string, size catalog.Size, qty int) error {
	if qty < 1 {
		return fmt.Errorf("cart quantity must be at least 1, got %d", qty)
	}
	return s.mutate(ctx, userID, productID, size, qty, false)
}

func (s *Store) mutate(ctx context.Context, userID int64, productID string, size catalog.Size, qty int, createMissing bool) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock the cart row first, then the product row (the committer uses the
	// same order).
	var current int
	err = tx.QueryRow(ctx,
		`SELECT quantity FROM cart WHERE user_id=$1 AND product_id=$2 AND size=$3 FOR UPDATE`,
		userID, productID, size.String()).Scan(&current)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		if !createMissing {
			return ErrItemNotFound
		}
		if err := s.Ledger.ReserveTx(ctx, tx, productID, size, qty); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO cart(user_id, product_id, size, quantity) VALUES ($1,$2,$3,$4)`,
			userID, productID, size.String(), qty); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if err := s.Ledger.AdjustTx(ctx, tx, productID, size, current, qty); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`UPDATE cart SET quantity=$4 WHERE user_id=$1 AND product_id=$2 AND size=$3`,
			userID, productID, size.String(), qty); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// Remove deletes the reservation and returns its units to stock. Removing a
// row that does not exist is a no-op success, so repeated removals are safe.
func (s *Store) Remove(ctx context.Context, userID int64, productID string, size catalog.Size) (removed bool, err error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var qty int
	err = tx.QueryRow(ctx,
		`SELECT quantity FROM cart WHERE user_id=$1 AND product_id=$2 AND size=$3 FOR UPDATE`,
		userID, productID, size.String()).Scan(&qty)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := s.Ledger.ReleaseTx(ctx, tx, productID, size, qty); err != nil {
		return false, err
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM cart WHERE user_id=$1 AND product_id=$2 AND size=$3`,
		userID, productID, size.String()); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

// View returns the user's cart with each line priced at the current catalog
// price. Read-only; the ledger is not consulted.
func (s *Store) View(ctx context.Context, userID int64) (View, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT c.product_id, c.size, c.quantity,
		       p.name, p.collection, p.image,
		       p.xs_price, p.s_price, p.m_price, p.l_price, p.xl_price, p.xxl_price
		FROM cart c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.product_id, c.size`, userID)
	if err != nil {
		return View{}, err
	}
	defer rows.Close()

	v := View{Items: []ViewItem{}}
	for rows.Next() {
		var (
			item    ViewItem
			sizeStr string
			p       catalog.Product
		)
		if err := rows.Scan(&item.ProductID, &sizeStr, &item.Quantity,
			&p.Name, &p.Collection, &p.Image,
			&p.Prices[catalog.SizeXS], &p.Prices[catalog.SizeS], &p.Prices[catalog.SizeM],
			&p.Prices[catalog.SizeL], &p.Prices[catalog.SizeXL], &p.Prices[catalog.SizeXXL]); err != nil {
			return View{}, err
		}
		size, err := catalog.ParseSize(sizeStr)
		if err != nil {
			return View{}, err
		}
		item.Size = size.String()
		item.ProductName = p.Name
		item.Collection = p.Collection
		item.Image = p.Image
		item.UnitPrice = catalog.UnitPrice(p, size)
		item.LinePrice = item.UnitPrice * item.Quantity
		v.Items = append(v.Items, item)
	}
	if err := rows.Err(); err != nil {
		return View{}, err
	}
	v.TotalProducts = len(v.Items)
	return v, nil
}
