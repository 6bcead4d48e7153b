package domain

import "time"

// ProductSnapshot is a denormalized, point-in-time copy of the product fields
// a cart line needs for display and totals. It is owned by the line item from
// the moment the item is fetched and may go stale relative to the live
// catalog record; snapshots are refreshed only when the item is re-added.
type ProductSnapshot struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"` // cents
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Valid reports whether the snapshot carries the fields required for display
// and total computation. The upstream API is known to return partially
// populated product references; invalid snapshots are excluded from totals
// rather than treated as errors.
func (s ProductSnapshot) Valid() bool {
	return s.ID != "" && s.Name != "" && s.Price > 0
}

// LineItem is one product-and-quantity pair within a cart.
// Quantity is always >= 1 for any item present; absence of an item is the
// only representation of zero quantity.
type LineItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Snapshot  ProductSnapshot `json:"snapshot"`
}

// Cart is the per-user cart: an ordered collection of line items with no two
// items sharing a product ID. Order is insertion order, used for display only.
type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []LineItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewCart creates an empty cart for the given user.
func NewCart(userID string) *Cart {
	return &Cart{
		UserID:    userID,
		Items:     []LineItem{},
		UpdatedAt: time.Now().UTC(),
	}
}

// FindItem returns the index of the line item for the given product ID,
// or -1 if the product is not in the cart.
func (c *Cart) FindItem(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Upsert inserts the item or, if a line for the same product exists, replaces
// it in place, preserving display order.
func (c *Cart) Upsert(item LineItem) {
	if i := c.FindItem(item.ProductID); i >= 0 {
		c.Items[i] = item
		return
	}
	c.Items = append(c.Items, item)
}

// Remove deletes the line item for the given product ID. Removing a product
// that is not in the cart is a no-op.
func (c *Cart) Remove(productID string) {
	if i := c.FindItem(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

// Subtotal returns the sum of quantity * snapshot price over all items with a
// valid snapshot, in cents. Items with malformed snapshots are skipped.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, item := range c.Items {
		if !item.Snapshot.Valid() {
			continue
		}
		total += item.Snapshot.Price * int64(item.Quantity)
	}
	return total
}

// ItemCount returns the number of distinct line items.
func (c *Cart) ItemCount() int {
	return len(c.Items)
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Clone returns a deep copy of the cart. The sync engine snapshots the cart
// before an optimistic mutation so it can roll back on upstream failure.
func (c *Cart) Clone() *Cart {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return &Cart{
		UserID:    c.UserID,
		Items:     items,
		UpdatedAt: c.UpdatedAt,
	}
}
