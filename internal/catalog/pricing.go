package catalog

// UnitPrice resolves the unit price of a product at the given tier. Pure
// lookup; cart views and order projections both price through here so the two
// can never disagree.
func UnitPrice(p Product, s Size) int {
	return p.Prices[s]
}
