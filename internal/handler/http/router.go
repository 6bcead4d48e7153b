// Package http exposes the cart edge REST API.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agrios/cartedge/internal/checkout"
	"github.com/agrios/cartedge/internal/identity"
	"github.com/agrios/cartedge/internal/orders"
	syncengine "github.com/agrios/cartedge/internal/sync"
	"github.com/agrios/cartedge/internal/upstream"
	"github.com/agrios/cartedge/pkg/health"
	"github.com/agrios/cartedge/pkg/middleware"
)

// RouterDeps carries everything the router needs. Archive is nil when no
// database is configured; the order history routes are skipped in that case.
type RouterDeps struct {
	Engine    *syncengine.Engine
	Simulator *checkout.Simulator
	Upstream  *upstream.Client
	Archive   *orders.Archive
	Verifier  *identity.Verifier
	Health    *health.Handler
	Logger    *slog.Logger
}

// NewRouter creates a chi router with all cart edge routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.PrometheusMetrics("cartedge"))
	r.Use(middleware.Tracing("cartedge"))
	r.Use(middleware.RequestLogger(deps.Logger))

	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	cartHandler := NewCartHandler(deps.Engine, deps.Logger)
	checkoutHandler := NewCheckoutHandler(deps.Simulator, deps.Logger)
	productHandler := NewProductHandler(deps.Upstream, deps.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(Authenticate(deps.Verifier))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productId}", cartHandler.UpdateItemQuantity)
			r.Delete("/items/{productId}", cartHandler.RemoveItem)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", checkoutHandler.Status)
			r.Post("/", checkoutHandler.Open)
			r.Post("/confirm", checkoutHandler.Confirm)
			r.Delete("/", checkoutHandler.Cancel)
		})

		r.Get("/products", productHandler.List)

		if deps.Archive != nil {
			orderHandler := NewOrderHandler(deps.Archive, deps.Logger)
			r.Get("/orders", orderHandler.List)
			r.Get("/orders/{orderId}", orderHandler.Get)
		}
	})

	return r
}
