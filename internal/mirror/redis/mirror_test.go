package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrios/cartedge/internal/domain"
	apperrors "github.com/agrios/cartedge/pkg/errors"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewStore(client, time.Hour), mr
}

func sampleCart(userID string) *domain.Cart {
	cart := domain.NewCart(userID)
	cart.Upsert(domain.LineItem{
		ProductID: "p1",
		Quantity:  3,
		Snapshot:  domain.ProductSnapshot{ID: "p1", Name: "Organic Fertilizer", Price: 1299},
	})
	return cart
}

func TestStore_GetMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "user-1")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_SaveAndGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleCart("user-1")))

	got, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "p1", got.Items[0].ProductID)
	assert.Equal(t, int64(1299), got.Items[0].Snapshot.Price)
}

func TestStore_SaveSetsTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleCart("user-1")))

	ttl := mr.TTL("cartmirror:user-1")
	assert.Equal(t, time.Hour, ttl)
}

func TestStore_ExpiredMirrorIsGone(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleCart("user-1")))

	mr.FastForward(2 * time.Hour)

	_, err := store.Get(ctx, "user-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleCart("user-1")))
	require.NoError(t, store.Delete(ctx, "user-1"))

	_, err := store.Get(ctx, "user-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_CorruptPayload(t *testing.T) {
	store, mr := newTestStore(t)

	require.NoError(t, mr.Set("cartmirror:user-1", "{not json"))

	_, err := store.Get(context.Background(), "user-1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
}
