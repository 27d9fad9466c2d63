package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `id, name, image, collection, kids,
       xs_price, s_price, m_price, l_price, xl_price, xxl_price,
       xs_stock, s_stock, m_stock, l_stock, xl_stock, xxl_stock`

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) GetProduct(ctx context.Context, id string) (Product, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, &ProductNotFoundError{ProductID: id}
	}
	return p, err
}

func (r *Repo) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Image, &p.Collection, &p.Kids,
		&p.Prices[SizeXS], &p.Prices[SizeS], &p.Prices[SizeM],
		&p.Prices[SizeL], &p.Prices[SizeXL], &p.Prices[SizeXXL],
		&p.Stock[SizeXS], &p.Stock[SizeS], &p.Stock[SizeM],
		&p.Stock[SizeL], &p.Stock[SizeXL], &p.Stock[SizeXXL])
	return p, err
}
