package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Lelo88/items-api-golang/internal/docs"
	"github.com/Lelo88/items-api-golang/internal/health"
	"github.com/Lelo88/items-api-golang/internal/httpx"
	"github.com/Lelo88/items-api-golang/internal/items"
	"github.com/Lelo88/items-api-golang/internal/logger"
	"github.com/Lelo88/items-api-golang/internal/metrics"
)

type routerDeps struct {
	store          items.Store
	pinger         health.Pinger
	logger         zerolog.Logger
	metrics        *metrics.Metrics
	corsOrigins    string
	requestTimeout time.Duration
}

// buildRouter arma la tabla de rutas una sola vez al arrancar.
func buildRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()

	// Middlewares base para trazabilidad y estabilidad.
	r.Use(httpx.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware(deps.logger))
	r.Use(httpx.Recoverer)
	r.Use(deps.metrics.Middleware)
	r.Use(httpx.CORS(deps.corsOrigins))
	r.Use(httpx.Timeout(deps.requestTimeout))

	// Errores de routing se manejan a nivel router (se propagan a los subrouters).
	// Método no permitido también es "Route not found".
	r.NotFound(httpx.RouteNotFound)
	r.MethodNotAllowed(httpx.RouteNotFound)

	r.Handle("/metrics", deps.metrics.Handler())

	healthHandler := health.New(deps.pinger)
	itemsHandler := items.NewHandler(items.NewService(deps.store))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)
		r.Get("/ready", healthHandler.Ready)
		items.RegisterRoutes(r, itemsHandler)
		docs.RegisterRoutes(r)
	})

	return r
}
