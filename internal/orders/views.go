package orders

import (
	"context"

	"github.com/hassan3208/Rangista-Backend/internal/catalog"
)

// Order projections price every item at the current catalog price; the
// snapshot stores only product, size and quantity.

const viewQuery = `
	SELECT o.id, o.user_id, o.status, o.created_at,
	       i.product_id, i.size, i.quantity, p.name,
	       p.xs_price, p.s_price, p.m_price, p.l_price, p.xl_price, p.xxl_price
	FROM orders o
	JOIN order_items i ON i.order_id = o.id
	JOIN products p ON p.id = i.product_id`

func (c *Committer) GetOrder(ctx context.Context, orderID string) (View, error) {
	views, err := c.queryViews(ctx, viewQuery+`
		WHERE o.id=$1
		ORDER BY i.product_id, i.size`, orderID)
	if err != nil {
		return View{}, err
	}
	if len(views) == 0 {
		return View{}, ErrOrderNotFound
	}
	return views[0], nil
}

func (c *Committer) ListUserOrders(ctx context.Context, userID int64) ([]View, error) {
	return c.queryViews(ctx, viewQuery+`
		WHERE o.user_id=$1
		ORDER BY o.created_at, o.id, i.product_id, i.size`, userID)
}

func (c *Committer) ListAllOrders(ctx context.Context) ([]View, error) {
	return c.queryViews(ctx, viewQuery+`
		ORDER BY o.created_at, o.id, i.product_id, i.size`)
}

func (c *Committer) queryViews(ctx context.Context, query string, args ...any) ([]View, error) {
	rows, err := c.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		out []View
		cur *View
	)
	for rows.Next() {
		var (
			v       View
			item    ViewItem
			sizeStr string
			p       catalog.Product
		)
		if err := rows.Scan(&v.OrderID, &v.UserID, &v.Status, &v.OrderTime,
			&item.ProductID, &sizeStr, &item.Quantity, &p.Name,
			&p.Prices[catalog.SizeXS], &p.Prices[catalog.SizeS], &p.Prices[catalog.SizeM],
			&p.Prices[catalog.SizeL], &p.Prices[catalog.SizeXL], &p.Prices[catalog.SizeXXL]); err != nil {
			return nil, err
		}
		size, err := catalog.ParseSize(sizeStr)
		if err != nil {
			return nil, err
		}
		item.Size = size.String()
		item.ProductName = p.Name
		item.UnitPrice = catalog.UnitPrice(p, size)

		if cur == nil || cur.OrderID != v.OrderID {
			v.Items = []ViewItem{}
			out = append(out, v)
			cur = &out[len(out)-1]
		}
		cur.Items = append(cur.Items, item)
		cur.TotalProducts = len(cur.Items)
		cur.TotalPrice += item.UnitPrice * item.Quantity
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
