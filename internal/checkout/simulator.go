// Package checkout drives the simulated checkout flow: summary, a stubbed
// payment gateway, order recording, and the post-payment cart clear.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agrios/cartedge/internal/domain"
	syncengine "github.com/agrios/cartedge/internal/sync"
	apperrors "github.com/agrios/cartedge/pkg/errors"
)

// ErrNoActiveCheckout is returned for confirm/cancel without an open summary.
var ErrNoActiveCheckout = errors.New("no active checkout")

// CartEngine is the slice of the sync engine the simulator drives.
type CartEngine interface {
	Load(ctx context.Context, userID string) (*domain.Cart, error)
	ClearAll(ctx context.Context, cart *domain.Cart) syncengine.ClearReport
}

// Archive persists completed orders. Failures are logged, never surfaced;
// payment already happened by the time the archive is written.
type Archive interface {
	SaveOrder(ctx context.Context, order domain.Order) error
}

// Publisher emits checkout completion events.
type Publisher interface {
	PublishCheckoutCompleted(ctx context.Context, order domain.Order) error
}

// Config controls the simulated gateway timings.
type Config struct {
	// PaymentDelay is how long the stubbed payment gateway takes.
	PaymentDelay time.Duration

	// ResetDelay is how long a success state is held before the session
	// returns to idle.
	ResetDelay time.Duration
}

// DefaultConfig mirrors the storefront's historical timings.
func DefaultConfig() Config {
	return Config{
		PaymentDelay: 2 * time.Second,
		ResetDelay:   3 * time.Second,
	}
}

// Result is the outcome of a confirmed checkout.
type Result struct {
	OrderID    string         `json:"order_id"`
	State      State          `json:"state"`
	Summary    domain.Summary `json:"summary"`
	ClearedAll bool           `json:"cleared_all"`
}

// Status is the current view of a user's checkout session.
type Status struct {
	State   State          `json:"state"`
	Summary domain.Summary `json:"summary,omitempty"`
	OrderID string         `json:"order_id,omitempty"`
}

// Simulator is the per-user checkout state machine. Sessions live in memory;
// a restart drops any summary that was open, which is safe because nothing is
// charged until Confirm returns.
type Simulator struct {
	cfg      Config
	engine   CartEngine
	archive  Archive
	events   Publisher
	notifier syncengine.Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

// NewSimulator creates a checkout simulator. archive and events may be nil
// when the corresponding backends are not configured.
func NewSimulator(cfg Config, engine CartEngine, archive Archive, events Publisher, notifier syncengine.Notifier, logger *slog.Logger) *Simulator {
	if cfg.PaymentDelay <= 0 {
		cfg.PaymentDelay = DefaultConfig().PaymentDelay
	}
	if cfg.ResetDelay <= 0 {
		cfg.ResetDelay = DefaultConfig().ResetDelay
	}
	return &Simulator{
		cfg:      cfg,
		engine:   engine,
		archive:  archive,
		events:   events,
		notifier: notifier,
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

// Open loads the authoritative cart and opens the order summary. Opening with
// an empty cart is rejected; opening while a summary is already open refreshes
// it from the current cart.
func (s *Simulator) Open(ctx context.Context, userID string) (Status, error) {
	if userID == "" {
		return Status{}, apperrors.AuthRequired()
	}

	s.mu.Lock()
	if sess, ok := s.sessions[userID]; ok && sess.state == StateProcessing {
		s.mu.Unlock()
		return Status{}, apperrors.Conflict("checkout already in progress")
	}
	s.mu.Unlock()

	cart, err := s.engine.Load(ctx, userID)
	if err != nil {
		return Status{}, err
	}
	if cart.IsEmpty() {
		return Status{}, apperrors.InvalidInput("cart is empty")
	}

	sess := &session{
		state:   StateSummaryOpen,
		cart:    cart,
		summary: cart.Summarize(),
		opened:  time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[userID] = sess
	s.mu.Unlock()

	return Status{State: sess.state, Summary: sess.summary}, nil
}

// Cancel closes an open summary without charging. Cancelling with nothing
// open is a no-op.
func (s *Simulator) Cancel(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok || sess.state != StateSummaryOpen {
		return nil
	}
	delete(s.sessions, userID)
	return nil
}

// Confirm runs the payment simulation against the summary that was presented.
// The success outcome is decided before the cart clear begins; a failed clear
// downgrades the state to a warning but never fails the checkout.
func (s *Simulator) Confirm(ctx context.Context, userID string) (Result, error) {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	if !ok || sess.state != StateSummaryOpen {
		s.mu.Unlock()
		return Result{}, ErrNoActiveCheckout
	}
	sess.state = StateProcessing
	s.mu.Unlock()

	if err := s.processPayment(ctx); err != nil {
		s.mu.Lock()
		sess.state = StateSummaryOpen
		s.mu.Unlock()
		return Result{}, err
	}

	order := domain.Order{
		ID:        uuid.New().String(),
		UserID:    userID,
		Items:     sess.cart.Clone().Items,
		Subtotal:  sess.summary.Subtotal,
		Tax:       sess.summary.Tax,
		Total:     sess.summary.Total,
		CreatedAt: time.Now().UTC(),
	}

	// Payment has succeeded; everything from here is best effort.
	s.notifier.Success(ctx, userID, "order placed successfully")

	report := s.engine.ClearAll(ctx, sess.cart)
	state := StateSucceeded
	if !report.AllCleared() {
		state = StateSucceededWithWarning
		for _, failed := range report.Failed() {
			order.ClearFailures = append(order.ClearFailures, failed.ProductID)
		}
		s.logger.ErrorContext(ctx, "cart only partially cleared after checkout",
			slog.String("user_id", userID),
			slog.String("order_id", order.ID),
			slog.Int("failed_lines", len(order.ClearFailures)),
			slog.String("error", apperrors.ErrPartialClear.Error()),
		)
	}

	s.saveOrder(ctx, order)
	s.publishCompleted(ctx, order)

	s.mu.Lock()
	sess.state = state
	sess.orderID = order.ID
	s.mu.Unlock()

	s.scheduleReset(userID, sess)

	return Result{
		OrderID:    order.ID,
		State:      state,
		Summary:    sess.summary,
		ClearedAll: report.AllCleared(),
	}, nil
}

// Status reports the current checkout state for a user.
func (s *Simulator) Status(ctx context.Context, userID string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return Status{State: StateIdle}
	}
	return Status{State: sess.state, Summary: sess.summary, OrderID: sess.orderID}
}

// processPayment stands in for a real gateway call. It always approves after
// the configured delay, unless the caller's context expires first.
func (s *Simulator) processPayment(ctx context.Context) error {
	timer := time.NewTimer(s.cfg.PaymentDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// scheduleReset returns the session to idle after the success state has been
// held long enough for the caller to observe it.
func (s *Simulator) scheduleReset(userID string, sess *session) {
	time.AfterFunc(s.cfg.ResetDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		current, ok := s.sessions[userID]
		if ok && current == sess {
			delete(s.sessions, userID)
		}
	})
}

func (s *Simulator) saveOrder(ctx context.Context, order domain.Order) {
	if s.archive == nil {
		return
	}
	if err := s.archive.SaveOrder(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to archive order",
			slog.String("order_id", order.ID),
			slog.String("user_id", order.UserID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Simulator) publishCompleted(ctx context.Context, order domain.Order) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishCheckoutCompleted(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish checkout completed event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}
}
