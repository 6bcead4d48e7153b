package checkout

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrios/cartedge/internal/domain"
	syncengine "github.com/agrios/cartedge/internal/sync"
	apperrors "github.com/agrios/cartedge/pkg/errors"
)

// --- Fakes ---

type fakeEngine struct {
	cart      *domain.Cart
	loadErr   error
	failClear map[string]error

	mu      sync.Mutex
	cleared []string
}

func (f *fakeEngine) Load(_ context.Context, userID string) (*domain.Cart, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.cart.Clone(), nil
}

func (f *fakeEngine) ClearAll(_ context.Context, cart *domain.Cart) syncengine.ClearReport {
	f.mu.Lock()
	defer f.mu.Unlock()

	report := make(syncengine.ClearReport, 0, len(cart.Items))
	for _, item := range cart.Items {
		err := f.failClear[item.ProductID]
		if err == nil {
			f.cleared = append(f.cleared, item.ProductID)
		}
		report = append(report, syncengine.ClearResult{ProductID: item.ProductID, Err: err})
	}
	return report
}

type fakeArchive struct {
	mu     sync.Mutex
	orders []domain.Order
	err    error
}

func (f *fakeArchive) SaveOrder(_ context.Context, order domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.orders = append(f.orders, order)
	return nil
}

type nopNotifier struct{}

func (nopNotifier) Success(context.Context, string, string) {}
func (nopNotifier) Error(context.Context, string, string)   {}

// --- Helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func cartWith(items ...domain.LineItem) *domain.Cart {
	cart := domain.NewCart("user-1")
	cart.Items = items
	return cart
}

func item(productID string, price int64, qty int) domain.LineItem {
	return domain.LineItem{
		ProductID: productID,
		Quantity:  qty,
		Snapshot:  domain.ProductSnapshot{ID: productID, Name: "Product " + productID, Price: price},
	}
}

func fastConfig() Config {
	return Config{PaymentDelay: 5 * time.Millisecond, ResetDelay: 30 * time.Millisecond}
}

func newTestSimulator(engine *fakeEngine, archive *fakeArchive) *Simulator {
	return NewSimulator(fastConfig(), engine, archive, nil, nopNotifier{}, testLogger())
}

// --- Open ---

func TestOpen_PresentsSummary(t *testing.T) {
	engine := &fakeEngine{cart: cartWith(item("p1", 2500, 2), item("p2", 1000, 1))}
	sim := newTestSimulator(engine, &fakeArchive{})

	status, err := sim.Open(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, StateSummaryOpen, status.State)
	assert.Equal(t, int64(6000), status.Summary.Subtotal)
	assert.Equal(t, int64(600), status.Summary.Tax)
	assert.Equal(t, int64(6600), status.Summary.Total)
	assert.Equal(t, int64(0), status.Summary.Shipping)
}

func TestOpen_RejectsEmptyCart(t *testing.T) {
	engine := &fakeEngine{cart: cartWith()}
	sim := newTestSimulator(engine, &fakeArchive{})

	_, err := sim.Open(context.Background(), "user-1")

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestOpen_RequiresAuth(t *testing.T) {
	sim := newTestSimulator(&fakeEngine{cart: cartWith()}, &fakeArchive{})

	_, err := sim.Open(context.Background(), "")

	assert.ErrorIs(t, err, apperrors.ErrAuthRequired)
}

func TestOpen_PropagatesLoadFailure(t *testing.T) {
	engine := &fakeEngine{loadErr: apperrors.FetchFailed(errors.New("down"))}
	sim := newTestSimulator(engine, &fakeArchive{})

	_, err := sim.Open(context.Background(), "user-1")

	assert.ErrorIs(t, err, apperrors.ErrFetchFailed)
}

// --- Confirm ---

func TestConfirm_Success(t *testing.T) {
	engine := &fakeEngine{cart: cartWith(item("p1", 2500, 2))}
	archive := &fakeArchive{}
	sim := newTestSimulator(engine, archive)
	ctx := context.Background()

	_, err := sim.Open(ctx, "user-1")
	require.NoError(t, err)

	result, err := sim.Confirm(ctx, "user-1")

	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, result.State)
	assert.True(t, result.ClearedAll)
	assert.NotEmpty(t, result.OrderID)
	assert.Equal(t, int64(5500), result.Summary.Total)

	assert.Equal(t, []string{"p1"}, engine.cleared)

	require.Len(t, archive.orders, 1)
	order := archive.orders[0]
	assert.Equal(t, result.OrderID, order.ID)
	assert.Equal(t, "user-1", order.UserID)
	assert.Equal(t, int64(5000), order.Subtotal)
	assert.Equal(t, int64(500), order.Tax)
	assert.Equal(t, int64(5500), order.Total)
	assert.Empty(t, order.ClearFailures)
}

func TestConfirm_PartialClearSucceedsWithWarning(t *testing.T) {
	engine := &fakeEngine{
		cart:      cartWith(item("p1", 1000, 1), item("p2", 2000, 1)),
		failClear: map[string]error{"p2": errors.New("boom")},
	}
	archive := &fakeArchive{}
	sim := newTestSimulator(engine, archive)
	ctx := context.Background()

	_, err := sim.Open(ctx, "user-1")
	require.NoError(t, err)

	result, err := sim.Confirm(ctx, "user-1")

	require.NoError(t, err, "a failed clear must never fail the checkout")
	assert.Equal(t, StateSucceededWithWarning, result.State)
	assert.False(t, result.ClearedAll)

	require.Len(t, archive.orders, 1)
	assert.Equal(t, []string{"p2"}, archive.orders[0].ClearFailures)
}

func TestConfirm_WithoutOpenSummary(t *testing.T) {
	sim := newTestSimulator(&fakeEngine{cart: cartWith(item("p1", 1000, 1))}, &fakeArchive{})

	_, err := sim.Confirm(context.Background(), "user-1")

	assert.ErrorIs(t, err, ErrNoActiveCheckout)
}

func TestConfirm_CanceledContextReopensSummary(t *testing.T) {
	engine := &fakeEngine{cart: cartWith(item("p1", 1000, 1))}
	sim := NewSimulator(
		Config{PaymentDelay: 200 * time.Millisecond, ResetDelay: 30 * time.Millisecond},
		engine, &fakeArchive{}, nil, nopNotifier{}, testLogger(),
	)

	_, err := sim.Open(context.Background(), "user-1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = sim.Confirm(ctx, "user-1")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	status := sim.Status(context.Background(), "user-1")
	assert.Equal(t, StateSummaryOpen, status.State, "an interrupted payment must return to the summary")
	assert.Empty(t, engine.cleared, "nothing may be cleared when payment did not complete")
}

func TestConfirm_ArchiveFailureDoesNotFailCheckout(t *testing.T) {
	engine := &fakeEngine{cart: cartWith(item("p1", 1000, 1))}
	archive := &fakeArchive{err: errors.New("db down")}
	sim := newTestSimulator(engine, archive)
	ctx := context.Background()

	_, err := sim.Open(ctx, "user-1")
	require.NoError(t, err)

	result, err := sim.Confirm(ctx, "user-1")

	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, result.State)
}

// --- Status and reset ---

func TestStatus_LifecycleAndReset(t *testing.T) {
	engine := &fakeEngine{cart: cartWith(item("p1", 1000, 1))}
	sim := newTestSimulator(engine, &fakeArchive{})
	ctx := context.Background()

	assert.Equal(t, StateIdle, sim.Status(ctx, "user-1").State)

	_, err := sim.Open(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, StateSummaryOpen, sim.Status(ctx, "user-1").State)

	result, err := sim.Confirm(ctx, "user-1")
	require.NoError(t, err)

	status := sim.Status(ctx, "user-1")
	assert.Equal(t, StateSucceeded, status.State, "success must be observable before the reset")
	assert.Equal(t, result.OrderID, status.OrderID)

	assert.Eventually(t, func() bool {
		return sim.Status(ctx, "user-1").State == StateIdle
	}, time.Second, 10*time.Millisecond, "session must return to idle after the reset delay")
}

// --- Cancel ---

func TestCancel(t *testing.T) {
	engine := &fakeEngine{cart: cartWith(item("p1", 1000, 1))}
	sim := newTestSimulator(engine, &fakeArchive{})
	ctx := context.Background()

	// Cancel with nothing open is a no-op.
	require.NoError(t, sim.Cancel(ctx, "user-1"))

	_, err := sim.Open(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, sim.Cancel(ctx, "user-1"))
	assert.Equal(t, StateIdle, sim.Status(ctx, "user-1").State)
	assert.Empty(t, engine.cleared)
}

func TestOpen_WhileProcessingRejected(t *testing.T) {
	engine := &fakeEngine{cart: cartWith(item("p1", 1000, 1))}
	sim := NewSimulator(
		Config{PaymentDelay: 150 * time.Millisecond, ResetDelay: 30 * time.Millisecond},
		engine, &fakeArchive{}, nil, nopNotifier{}, testLogger(),
	)
	ctx := context.Background()

	_, err := sim.Open(ctx, "user-1")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = sim.Confirm(ctx, "user-1")
	}()

	// Give the confirm goroutine time to enter processing.
	require.Eventually(t, func() bool {
		return sim.Status(ctx, "user-1").State == StateProcessing
	}, time.Second, 5*time.Millisecond)

	_, err = sim.Open(ctx, "user-1")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	<-done
}
