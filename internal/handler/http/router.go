package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andreinadaban/wishlist-service/pkg/health"
	"github.com/andreinadaban/wishlist-service/pkg/middleware"

	"github.com/andreinadaban/wishlist-service/internal/identity"
	"github.com/andreinadaban/wishlist-service/internal/service"
)

// NewRouter creates a chi router with all wishlist service routes registered.
func NewRouter(
	wishlistService *service.WishlistService,
	resolver *identity.Resolver,
	cookieName string,
	healthHandler *health.Handler,
	logger *slog.Logger,
	pprofCIDRs []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("wishlist"))
	r.Use(middleware.Tracing("wishlist"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, pprofCIDRs, logger)

	// Wishlist API endpoints
	wishlistHandler := NewWishlistHandler(wishlistService, cookieName, logger)

	r.Route("/api/v1/wishlist", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(ResolveSession(resolver))

		r.Get("/", wishlistHandler.Snapshot)
		r.Get("/bootstrap", wishlistHandler.Bootstrap)
		r.Get("/items/{productId}", wishlistHandler.CheckItem)

		r.Post("/commands", wishlistHandler.Command)
		r.Post("/merge", wishlistHandler.Merge)
	})

	r.Route("/api/v1/admin/wishlists", func(r chi.Router) {
		r.Use(ResolveSession(resolver))
		r.Use(RequireAdmin)

		r.Get("/{kind}/{id}", wishlistHandler.AdminSnapshot)
	})

	return r
}
