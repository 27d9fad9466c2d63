package orders

import (
	"errors"
	"time"
)

var (
	ErrCartEmpty     = errors.New("cart is empty")
	ErrOrderNotFound = errors.New("order not found")
)

type Order struct {
	ID        string
	UserID    int64
	Status    Status
	CreatedAt time.Time
}

// Item snapshots a cart entry at commit time. No price is stored: order views
// re-price each line from the current catalog.
type Item struct {
	OrderID   string
	ProductID string
	Size      string
	Quantity  int
}

type ViewItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Size        string `json:"size"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int    `json:"price"`
}

type View struct {
	OrderID       string     `json:"order_id"`
	UserID        int64      `json:"user_id"`
	Status        Status     `json:"status"`
	TotalProducts int        `json:"total_products"`
	TotalPrice    int        `json:"total_price"`
	Items         []ViewItem `json:"items"`
	OrderTime     time.Time  `json:"order_time"`
}
