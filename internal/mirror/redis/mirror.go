// Package redis provides a Redis-backed cart mirror for multi-instance edge
// deployments, where any instance may serve a given user's session.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agrios/cartedge/internal/domain"
	apperrors "github.com/agrios/cartedge/pkg/errors"
)

const keyPrefix = "cartmirror:"

// Store implements mirror.Store using Redis.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a Redis-backed cart mirror. Entries expire after ttl;
// an expired mirror is simply refetched from upstream on the next load.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the mirrored cart for a user.
func (s *Store) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	key := keyPrefix + userID

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("cart", userID)
		}
		return nil, fmt.Errorf("redis get cart mirror: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart mirror: %w", err)
	}

	return &cart, nil
}

// Save persists the cart with the configured TTL.
func (s *Store) Save(ctx context.Context, cart *domain.Cart) error {
	key := keyPrefix + cart.UserID

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart mirror: %w", err)
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart mirror: %w", err)
	}

	return nil
}

// Delete removes the mirrored cart for a user.
func (s *Store) Delete(ctx context.Context, userID string) error {
	key := keyPrefix + userID

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del cart mirror: %w", err)
	}

	return nil
}
