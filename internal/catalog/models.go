package catalog

import "fmt"

// Product is a catalog row. Prices are currency minor units; Stock counts the
// units not currently held by any cart reservation. Both arrays are indexed
// by Size.
type Product struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Image      string        `json:"image"`
	Collection string        `json:"collection"`
	Kids       bool          `json:"kids"`
	Prices     [NumSizes]int `json:"prices"`
	Stock      [NumSizes]int `json:"stock"`
}

type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s", e.ProductID)
}
