// Package sync keeps the local cart mirror consistent with the upstream
// platform API. Mutations are applied optimistically to the mirror, sent
// upstream, and rolled back if the upstream rejects them.
package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/agrios/cartedge/internal/domain"
	"github.com/agrios/cartedge/internal/mirror"
	apperrors "github.com/agrios/cartedge/pkg/errors"
)

// UpstreamAPI is the subset of the platform API the engine mutates through.
type UpstreamAPI interface {
	FetchCart(ctx context.Context, userID string) ([]domain.LineItem, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) error
	UpdateItem(ctx context.Context, userID, productID string, quantity int) error
}

// Publisher emits cart change events. Publish failures are logged, never
// propagated; events are observability, not correctness.
type Publisher interface {
	PublishCartUpdated(ctx context.Context, cart *domain.Cart) error
}

// Engine reconciles the cart mirror against the upstream API.
type Engine struct {
	mirror   mirror.Store
	api      UpstreamAPI
	guard    *inflightGuard
	notifier Notifier
	events   Publisher
	logger   *slog.Logger
}

// NewEngine creates a sync engine. events may be nil when no broker is
// configured.
func NewEngine(store mirror.Store, api UpstreamAPI, notifier Notifier, events Publisher, logger *slog.Logger) *Engine {
	return &Engine{
		mirror:   store,
		api:      api,
		guard:    newInflightGuard(),
		notifier: notifier,
		events:   events,
		logger:   logger,
	}
}

// Load fetches the authoritative cart from upstream and refreshes the mirror.
// If the upstream fetch fails and a mirror exists, the stale mirror is served
// so the user keeps whatever they were looking at; the failure is reported
// through the notifier.
func (e *Engine) Load(ctx context.Context, userID string) (*domain.Cart, error) {
	if userID == "" {
		return nil, apperrors.AuthRequired()
	}

	items, err := e.api.FetchCart(ctx, userID)
	if err != nil {
		e.notifier.Error(ctx, userID, "failed to load cart items")

		cached, cacheErr := e.mirror.Get(ctx, userID)
		if cacheErr == nil {
			e.logger.WarnContext(ctx, "upstream cart fetch failed, serving stale mirror",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
			return cached, nil
		}

		return nil, apperrors.FetchFailed(err)
	}

	cart := domain.NewCart(userID)
	cart.Items = items
	cart.UpdatedAt = time.Now().UTC()

	if saveErr := e.mirror.Save(ctx, cart); saveErr != nil {
		e.logger.ErrorContext(ctx, "failed to save cart mirror",
			slog.String("user_id", userID),
			slog.String("error", saveErr.Error()),
		)
	}

	return cart, nil
}

// AddToCart adds a product to the cart. A product already in the cart gets a
// quantity update of existing plus requested instead of a second line; the
// snapshot is refreshed from the authoritative cart after the mutation.
func (e *Engine) AddToCart(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if userID == "" {
		e.notifier.Error(ctx, userID, "please log in to manage your cart")
		return nil, apperrors.AuthRequired()
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if quantity < 1 {
		return nil, apperrors.InvalidInput("quantity must be at least 1")
	}

	key := lineKey(userID, productID)
	if !e.guard.tryAcquire(key) {
		return nil, apperrors.ItemBusy(productID)
	}
	defer e.guard.release(key)

	current, err := e.mirror.Get(ctx, userID)
	if err != nil {
		current, err = e.Load(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	// A line that already exists must not be created twice; the upstream
	// add is a create, so duplicates go through an absolute-quantity update.
	if i := current.FindItem(productID); i >= 0 {
		err = e.api.UpdateItem(ctx, userID, productID, current.Items[i].Quantity+quantity)
	} else {
		err = e.api.AddItem(ctx, userID, productID, quantity)
	}
	if err != nil {
		e.notifier.Error(ctx, userID, "failed to add item to cart")
		return nil, apperrors.MutationFailed("add item to cart", err)
	}

	// Reconcile from the authoritative cart so new lines carry a fresh
	// product snapshot. If the reconcile fetch fails the mirror keeps its
	// pre-mutation state; the upstream already holds the new line.
	cart, err := e.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	e.publishUpdated(ctx, cart)
	e.notifier.Success(ctx, userID, "item added to cart")
	return cart, nil
}

// UpdateQuantity sets the quantity of a cart line. Quantities below 1 remove
// the line. The mirror is updated optimistically and rolled back if the
// upstream rejects the mutation.
func (e *Engine) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if userID == "" {
		e.notifier.Error(ctx, userID, "please log in to manage your cart")
		return nil, apperrors.AuthRequired()
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if quantity < 0 {
		quantity = 0
	}

	key := lineKey(userID, productID)
	if !e.guard.tryAcquire(key) {
		return nil, apperrors.ItemBusy(productID)
	}
	defer e.guard.release(key)

	cart, err := e.mirror.Get(ctx, userID)
	if err != nil {
		loaded, loadErr := e.Load(ctx, userID)
		if loadErr != nil {
			return nil, loadErr
		}
		cart = loaded
	}

	rollback := cart.Clone()

	if quantity == 0 {
		cart.Remove(productID)
	} else {
		i := cart.FindItem(productID)
		if i < 0 {
			return nil, apperrors.NotFound("cart item", productID)
		}
		cart.Items[i].Quantity = quantity
	}
	cart.UpdatedAt = time.Now().UTC()

	if saveErr := e.mirror.Save(ctx, cart); saveErr != nil {
		e.logger.ErrorContext(ctx, "failed to save cart mirror",
			slog.String("user_id", userID),
			slog.String("error", saveErr.Error()),
		)
	}

	if err := e.api.UpdateItem(ctx, userID, productID, quantity); err != nil {
		if saveErr := e.mirror.Save(ctx, rollback); saveErr != nil {
			e.logger.ErrorContext(ctx, "failed to roll back cart mirror",
				slog.String("user_id", userID),
				slog.String("error", saveErr.Error()),
			)
		}
		e.notifier.Error(ctx, userID, "failed to update cart")
		return nil, apperrors.MutationFailed("update cart item", err)
	}

	e.publishUpdated(ctx, cart)
	e.notifier.Success(ctx, userID, "cart updated")
	return cart, nil
}

// RemoveFromCart removes a product from the cart. Equivalent to setting its
// quantity to zero.
func (e *Engine) RemoveFromCart(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	return e.UpdateQuantity(ctx, userID, productID, 0)
}

func (e *Engine) publishUpdated(ctx context.Context, cart *domain.Cart) {
	if e.events == nil {
		return
	}
	if err := e.events.PublishCartUpdated(ctx, cart); err != nil {
		e.logger.ErrorContext(ctx, "failed to publish cart updated event",
			slog.String("user_id", cart.UserID),
			slog.String("error", err.Error()),
		)
	}
}
