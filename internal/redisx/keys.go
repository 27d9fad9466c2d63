package redisx

import "time"

const (
	// Cart view per user: cart:{user_id} -> CartView JSON. Dropped on every
	// cart mutation and on order commit.
	KeyCartView = "cart:%d"

	// Order projection: order_view:{order_id} -> OrderView JSON. Dropped on
	// status change.
	KeyOrderView = "order_view:%s"
)

var (
	TTLCartView  = 2 * time.Minute
	TTLOrderView = 5 * time.Minute
)
