package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/agrios/cartedge/internal/checkout"
	"github.com/agrios/cartedge/internal/identity"
)

// CheckoutHandler handles HTTP requests for the checkout flow.
type CheckoutHandler struct {
	simulator *checkout.Simulator
	logger    *slog.Logger
}

// NewCheckoutHandler creates a checkout HTTP handler.
func NewCheckoutHandler(simulator *checkout.Simulator, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		simulator: simulator,
		logger:    logger,
	}
}

// Open handles POST /api/v1/checkout
func (h *CheckoutHandler) Open(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, response{
			Error: &errorResponse{Code: "AUTH_REQUIRED", Message: "please log in to check out"},
		})
		return
	}

	status, err := h.simulator.Open(r.Context(), id.UserID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: status})
}

// Confirm handles POST /api/v1/checkout/confirm
func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, response{
			Error: &errorResponse{Code: "AUTH_REQUIRED", Message: "please log in to check out"},
		})
		return
	}

	result, err := h.simulator.Confirm(r.Context(), id.UserID)
	if err != nil {
		if errors.Is(err, checkout.ErrNoActiveCheckout) {
			writeJSON(w, http.StatusConflict, response{
				Error: &errorResponse{Code: "NO_ACTIVE_CHECKOUT", Message: "no order summary is open"},
			})
			return
		}
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: result})
}

// Cancel handles DELETE /api/v1/checkout
func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, response{
			Error: &errorResponse{Code: "AUTH_REQUIRED", Message: "please log in to check out"},
		})
		return
	}

	if err := h.simulator.Cancel(r.Context(), id.UserID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "cancelled"}})
}

// Status handles GET /api/v1/checkout
func (h *CheckoutHandler) Status(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, response{
			Error: &errorResponse{Code: "AUTH_REQUIRED", Message: "please log in to check out"},
		})
		return
	}

	writeJSON(w, http.StatusOK, response{Data: h.simulator.Status(r.Context(), id.UserID)})
}
