package catalog

import "fmt"

// Size is one of the six fixed garment tiers. It indexes both the price and
// stock arrays on Product, so every per-size lookup is a single array access.
type Size int

const (
	SizeXS Size = iota
	SizeS
	SizeM
	SizeL
	SizeXL
	SizeXXL

	NumSizes = 6
)

var sizeNames = [NumSizes]string{"XS", "S", "M", "L", "XL", "XXL"}

// stock/price column per tier; Size is a closed enum so these are safe to
// splice into SQL.
var stockColumns = [NumSizes]string{"xs_stock", "s_stock", "m_stock", "l_stock", "xl_stock", "xxl_stock"}
var priceColumns = [NumSizes]string{"xs_price", "s_price", "m_price", "l_price", "xl_price", "xxl_price"}

func (s Size) String() string { return sizeNames[s] }

func (s Size) StockColumn() string { return stockColumns[s] }
func (s Size) PriceColumn() string { return priceColumns[s] }

func (s Size) Valid() bool { return s >= SizeXS && s < NumSizes }

// ParseSize maps a wire value ("XS".."XXL") to its tier.
func ParseSize(v string) (Size, error) {
	for i, name := range sizeNames {
		if v == name {
			return Size(i), nil
		}
	}
	return 0, fmt.Errorf("unknown size %q", v)
}

// AllSizes returns the tiers in ascending order.
func AllSizes() [NumSizes]Size {
	return [NumSizes]Size{SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL}
}
