package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/grimoire-backend/internal/transport/middleware"
)

// HydratePath is the route of the hydration endpoint.
const HydratePath = "/api/spell-reference-hydrate"

// RouterDeps are the handlers and middleware the router mounts.
type RouterDeps struct {
	Health    *HealthHandler
	SpellRef  *SpellRefHandler
	AdminAuth middleware.Middleware
	// HydrateLimit throttles POST batches; nil disables it.
	HydrateLimit middleware.Middleware
	Logger       *slog.Logger
}

// NewRouter builds the HTTP API: public health checks plus the admin-only
// hydration route.
func NewRouter(deps RouterDeps) http.Handler {
	// Chain skips nil middleware; a nil AdminAuth would leave the route open.
	if deps.AdminAuth == nil {
		panic("rest: RouterDeps.AdminAuth is required")
	}

	r := chi.NewRouter()
	r.Use(middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(deps.Logger),
		middleware.Recovery(deps.Logger),
	))

	r.Get("/live", deps.Health.Live)
	r.Get("/ready", deps.Health.Ready)
	r.Get("/health", deps.Health.Health)

	ledger := middleware.Chain(deps.AdminAuth)
	hydrate := middleware.Chain(deps.AdminAuth, deps.HydrateLimit)
	r.Method(http.MethodGet, HydratePath, ledger(http.HandlerFunc(deps.SpellRef.Missing)))
	r.Method(http.MethodPost, HydratePath, hydrate(http.HandlerFunc(deps.SpellRef.Hydrate)))

	return r
}
