package catalog

import "testing"

func TestUnitPrice(t *testing.T) {
	p := Product{
		ID:     "kurta-01",
		Prices: [NumSizes]int{1000, 1100, 1200, 1300, 1400, 1500},
	}
	for i, want := range []int{1000, 1100, 1200, 1300, 1400, 1500} {
		if got := UnitPrice(p, Size(i)); got != want {
			t.Errorf("UnitPrice(%s) = %d, want %d", Size(i), got, want)
		}
	}
}
