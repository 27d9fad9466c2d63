// Package users is the thin collaborator the order flow needs: account
// management itself (signup, auth, profiles) lives elsewhere.
package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type Repo struct{ DB *pgxpool.Pool }

// Exists reports whether the user id is known. Returns ErrUserNotFound so
// callers can surface it directly.
func (r *Repo) Exists(ctx context.Context, userID int64) error {
	var one int
	err := r.DB.QueryRow(ctx, `SELECT 1 FROM users WHERE id=$1`, userID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrUserNotFound
	}
	return err
}
