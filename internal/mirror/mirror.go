// Package mirror holds the session-local view of each user's cart. The
// upstream marketplace API remains the source of truth; the mirror gives the
// storefront instant reads and optimistic writes between reconciliations.
package mirror

import (
	"context"

	"github.com/agrios/cartedge/internal/domain"
)

// Store is the interface for cart mirror persistence.
type Store interface {
	// Get retrieves the mirrored cart for a user. Returns an error wrapping
	// apperrors.ErrNotFound when no cart is mirrored for the user.
	Get(ctx context.Context, userID string) (*domain.Cart, error)

	// Save persists the cart, overwriting any existing mirror for the user.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes the mirrored cart for a user.
	Delete(ctx context.Context, userID string) error
}
