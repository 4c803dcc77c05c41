package maney

// Portfolio is the authenticated user's container of illiquid assets.
type Portfolio struct {
	ID             int64           `json:"id"`
	IlliquidAssets []IlliquidAsset `json:"illiquidAssets"`
}

// Total returns the sum of the estimated values of all assets.
func (p Portfolio) Total() Value {
	var total Value
	for _, a := range p.IlliquidAssets {
		total = total.Add(a.EstimatedValue)
	}
	return total
}
