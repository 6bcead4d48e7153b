package domain

import "time"

// Order is the record of a completed checkout. Amounts are in cents and are
// frozen at the moment of payment; later catalog price changes do not affect
// recorded orders.
type Order struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Items         []LineItem `json:"items"`
	Subtotal      int64      `json:"subtotal"`
	Tax           int64      `json:"tax"`
	Total         int64      `json:"total"`
	CreatedAt     time.Time  `json:"created_at"`
	ClearFailures []string   `json:"clear_failures,omitempty"` // product IDs left in the cart
}
