package domain

// Product is a catalog entry owned by the upstream marketplace API. The cart
// edge only reads products; it never mutates them.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"` // cents
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Category    string `json:"category,omitempty"`
	Stock       int    `json:"stock,omitempty"`
}

// Snapshot returns the denormalized copy of the product carried by a cart line.
func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		ImageURL:    p.ImageURL,
	}
}
