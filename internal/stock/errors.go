package stock

import (
	"fmt"

	"github.com/hassan3208/Rangista-Backend/internal/catalog"
)

// InsufficientStockError is a business rejection, not a transient fault:
// stock was left untouched and the caller should not retry.
type InsufficientStockError struct {
	ProductID string
	Size      catalog.Size
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient %s stock for product %s: requested %d, available %d",
		e.Size, e.ProductID, e.Requested, e.Available)
}
