package cart

import (
	"errors"

	"github.com/hassan3208/Rangista-Backend/internal/catalog"
)

var ErrItemNotFound = errors.New("cart item not found")

// Entry is the reservation record: its quantity has already been subtracted
// from the product's stock counter at the moment the row exists.
type Entry struct {
	UserID    int64
	ProductID string
	Size      catalog.Size
	Quantity  int
}

type ViewItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Collection  string `json:"collection"`
	Image       string `json:"image"`
	Size        string `json:"size"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int    `json:"price"`
	LinePrice   int    `json:"line_price"`
}

type View struct {
	TotalProducts int        `json:"total_products"`
	Items         []ViewItem `json:"items"`
}
