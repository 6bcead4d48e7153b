package http

import (
	"log/slog"
	"net/http"

	"github.com/agrios/cartedge/internal/upstream"
)

// ProductHandler proxies catalog reads to the upstream platform API.
type ProductHandler struct {
	client *upstream.Client
	logger *slog.Logger
}

// NewProductHandler creates a product HTTP handler.
func NewProductHandler(client *upstream.Client, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		client: client,
		logger: logger,
	}
}

// List handles GET /api/v1/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := upstream.ProductFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}

	products, err := h.client.FetchProducts(r.Context(), filter)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: products})
}
