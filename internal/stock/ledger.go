package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hassan3208/Rangista-Backend/internal/catalog"
)

// Ledger owns the per-product, per-size stock counters. A counter holds only
// the units not reserved by any cart entry, so it must never go negative.
// Every mutation row-locks the product (FOR UPDATE) for the duration of its
// transaction; two concurrent reservations can never both read the same stale
// count.
type Ledger struct{ DB *pgxpool.Pool }

// ReserveTx decrements stock[size] by qty inside the caller's transaction.
// Fails with InsufficientStockError when fewer than qty units are available,
// leaving the counter untouched.
func (l *Ledger) ReserveTx(ctx context.Context, tx pgx.Tx, productID string, size catalog.Size, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("reserve: quantity must be positive, got %d", qty)
	}
	col := size.StockColumn()

	var available int
	err := tx.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM products WHERE id=$1 FOR UPDATE`, col),
		productID).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		return &catalog.ProductNotFoundError{ProductID: productID}
	}
	if err != nil {
		return err
	}
	if available < qty {
		return &InsufficientStockError{ProductID: productID, Size: size, Requested: qty, Available: available}
	}

	_, err = tx.Exec(ctx,
		fmt.Sprintf(`UPDATE products SET %s = %s - $2 WHERE id=$1`, col, col),
		productID, qty)
	return err
}

// ReleaseTx returns qty units to stock[size]. No upper bound check: callers
// release only what they previously reserved.
func (l *Ledger) ReleaseTx(ctx context.Context, tx pgx.Tx, productID string, size catalog.Size, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("release: quantity must be positive, got %d", qty)
	}
	col := size.StockColumn()

	ct, err := tx.Exec(ctx,
		fmt.Sprintf(`UPDATE products SET %s = %s + $2 WHERE id=$1`, col, col),
		productID, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return &catalog.ProductNotFoundError{ProductID: productID}
	}
	return nil
}

// AdjustTx applies the signed difference between a reservation's old and new
// quantity. This one rule covers every quantity-change path: grow reserves
// the delta, shrink releases it, equal is a no-op. Nothing is applied if the
// reserve leg rejects.
func (l *Ledger) AdjustTx(ctx context.Context, tx pgx.Tx, productID string, size catalog.Size, oldQty, newQty int) error {
	delta := newQty - oldQty
	switch {
	case delta > 0:
		return l.ReserveTx(ctx, tx, productID, size, delta)
	case delta < 0:
		return l.ReleaseTx(ctx, tx, productID, size, -delta)
	}
	return nil
}

// Reserve runs ReserveTx in its own transaction.
func (l *Ledger) Reserve(ctx context.Context, productID string, size catalog.Size, qty int) error {
	return l.inTx(ctx, func(tx pgx.Tx) error {
		return l.ReserveTx(ctx, tx, productID, size, qty)
	})
}

// Release runs ReleaseTx in its own transaction.
func (l *Ledger) Release(ctx context.Context, productID string, size catalog.Size, qty int) error {
	return l.inTx(ctx, func(tx pgx.Tx) error {
		return l.ReleaseTx(ctx, tx, productID, size, qty)
	})
}

// Adjust runs AdjustTx in its own transaction.
func (l *Ledger) Adjust(ctx context.Context, productID string, size catalog.Size, oldQty, newQty int) error {
	return l.inTx(ctx, func(tx pgx.Tx) error {
		return l.AdjustTx(ctx, tx, productID, size, oldQty, newQty)
	})
}

func (l *Ledger) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := l.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
