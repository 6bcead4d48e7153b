package mirror

import (
	"context"
	"sync"

	"github.com/agrios/cartedge/internal/domain"
	apperrors "github.com/agrios/cartedge/pkg/errors"
)

// MemoryStore is an in-process cart mirror for single-instance deployments
// and tests. Carts are deep-copied on the way in and out so callers can
// mutate their copies freely.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
}

// NewMemoryStore creates an empty in-memory mirror.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts: make(map[string]*domain.Cart),
	}
}

// Get retrieves the mirrored cart for a user.
func (s *MemoryStore) Get(_ context.Context, userID string) (*domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[userID]
	if !ok {
		return nil, apperrors.NotFound("cart", userID)
	}
	return cart.Clone(), nil
}

// Save persists the cart, overwriting any existing mirror for the user.
func (s *MemoryStore) Save(_ context.Context, cart *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[cart.UserID] = cart.Clone()
	return nil
}

// Delete removes the mirrored cart for a user.
func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, userID)
	return nil
}
