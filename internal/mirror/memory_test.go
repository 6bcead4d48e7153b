package mirror

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrios/cartedge/internal/domain"
	apperrors "github.com/agrios/cartedge/pkg/errors"
)

func sampleCart(userID string) *domain.Cart {
	cart := domain.NewCart(userID)
	cart.Upsert(domain.LineItem{
		ProductID: "p1",
		Quantity:  2,
		Snapshot:  domain.ProductSnapshot{ID: "p1", Name: "Tomato Seeds", Price: 499},
	})
	return cart
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "user-1")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMemoryStore_SaveAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleCart("user-1")))

	got, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
}

func TestMemoryStore_IsolatesCallers(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	cart := sampleCart("user-1")
	require.NoError(t, store.Save(ctx, cart))

	// Mutating the saved cart must not affect the stored copy.
	cart.Items[0].Quantity = 99

	got, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Items[0].Quantity)

	// Mutating a retrieved cart must not affect later reads.
	got.Items[0].Quantity = 42

	again, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Items[0].Quantity)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleCart("user-1")))
	require.NoError(t, store.Delete(ctx, "user-1"))

	_, err := store.Get(ctx, "user-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// Deleting an absent mirror is a no-op.
	assert.NoError(t, store.Delete(ctx, "user-1"))
}
