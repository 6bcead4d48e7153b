package domain

// TaxRateBps is the flat tax rate applied at checkout, in basis points (10%).
const TaxRateBps = 1000

// Summary is the order summary derived from the current cart at read time.
// It is never persisted; shipping is always free.
type Summary struct {
	Subtotal int64 `json:"subtotal"` // cents
	Shipping int64 `json:"shipping"` // always 0
	Tax      int64 `json:"tax"`      // cents
	Total    int64 `json:"total"`    // cents
	Items    int   `json:"items"`
}

// Summarize computes the checkout summary for the cart:
// subtotal over valid-snapshot items, 10% tax, total = subtotal + tax.
func (c *Cart) Summarize() Summary {
	subtotal := c.Subtotal()
	tax := subtotal * TaxRateBps / 10000
	return Summary{
		Subtotal: subtotal,
		Shipping: 0,
		Tax:      tax,
		Total:    subtotal + tax,
		Items:    c.ItemCount(),
	}
}
