package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/agrios/cartedge/internal/identity"
	"github.com/agrios/cartedge/internal/orders"
	apperrors "github.com/agrios/cartedge/pkg/errors"
)

// OrderHandler serves the order history recorded by the checkout flow.
type OrderHandler struct {
	archive *orders.Archive
	logger  *slog.Logger
}

// NewOrderHandler creates an order HTTP handler.
func NewOrderHandler(archive *orders.Archive, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		archive: archive,
		logger:  logger,
	}
}

// List handles GET /api/v1/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, response{
			Error: &errorResponse{Code: "AUTH_REQUIRED", Message: "please log in to view orders"},
		})
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			writeJSON(w, http.StatusBadRequest, response{
				Error: &errorResponse{Code: "INVALID_INPUT", Message: "limit must be between 1 and 200"},
			})
			return
		}
		limit = parsed
	}

	list, err := h.archive.ListOrders(r.Context(), id.UserID, limit)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: list})
}

// Get handles GET /api/v1/orders/{orderId}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, response{
			Error: &errorResponse{Code: "AUTH_REQUIRED", Message: "please log in to view orders"},
		})
		return
	}

	orderID := chi.URLParam(r, "orderId")
	order, err := h.archive.GetOrder(r.Context(), orderID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	// Order IDs are unguessable, but never serve another user's order.
	if order.UserID != id.UserID {
		writeError(w, r, h.logger, apperrors.NotFound("order", orderID))
		return
	}

	writeJSON(w, http.StatusOK, response{Data: order})
}
