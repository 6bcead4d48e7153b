package upstream

import (
	"encoding/json"

	"github.com/agrios/cartedge/internal/domain"
)

// productRef is the populated product reference embedded in upstream cart
// entries. The platform API uses Mongo-style document IDs.
type productRef struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"` // cents
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Category    string `json:"category,omitempty"`
	Stock       int    `json:"stock,omitempty"`
}

// cartEntry is one line of the upstream cart payload. ProductID is declared
// as RawMessage because the upstream is known to return unpopulated string
// references or nulls for products that were deleted from the catalog.
type cartEntry struct {
	ProductID json.RawMessage `json:"productId"`
	Quantity  int             `json:"quantity"`
}

// fetchCartResponse is the body of GET /cart.
type fetchCartResponse struct {
	Cart []cartEntry `json:"cart"`
}

type mutateRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// lineItems converts the raw payload into domain line items, dropping
// entries whose product reference is structurally invalid (unpopulated,
// null, or missing id/name/price) and entries with non-positive quantity.
func (r fetchCartResponse) lineItems() []domain.LineItem {
	items := make([]domain.LineItem, 0, len(r.Cart))
	for _, entry := range r.Cart {
		if entry.Quantity < 1 {
			continue
		}

		var ref productRef
		if err := json.Unmarshal(entry.ProductID, &ref); err != nil {
			continue
		}

		snapshot := domain.ProductSnapshot{
			ID:          ref.ID,
			Name:        ref.Name,
			Price:       ref.Price,
			Description: ref.Description,
			ImageURL:    ref.ImageURL,
		}
		if !snapshot.Valid() {
			continue
		}

		items = append(items, domain.LineItem{
			ProductID: ref.ID,
			Quantity:  entry.Quantity,
			Snapshot:  snapshot,
		})
	}
	return items
}

func (r productRef) product() domain.Product {
	return domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Category:    r.Category,
		Stock:       r.Stock,
	}
}
