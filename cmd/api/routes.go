package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	httphandlers "finpulse/internal/interfaces/http"
	"finpulse/internal/shared/config"
	"finpulse/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if cfg.Telemetry.Enabled {
		r.Use(middleware.Telemetry(cfg.Telemetry.ServiceName))
		r.Use(middleware.Tracing)
	}
	r.Use(middleware.Logging(logger.Named("http")))

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		r.Use(middleware.HSTS)
		logger.Info("TLS security middleware enabled (HSTS)")
	}

	// Health check
	r.Get("/health", httphandlers.HandleHealth)

	// Provider webhooks are server-to-server and authenticated by signature.
	r.Post("/webhooks/provider", deps.WebhookHandler.HandleProviderWebhook)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CORS(cfg.Server.AllowedHosts))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(deps.Verifier))
			r.Post("/link/token", deps.LinkHandler.HandleCreateLinkToken)
			r.Post("/link/exchange", deps.LinkHandler.HandleExchange)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(deps.Verifier))
			r.Get("/dashboard", deps.DashboardHandler.HandleDashboard)
			r.Get("/dashboard/stream", deps.DashboardHandler.HandleDashboardStream)
			r.Get("/savings", deps.DashboardHandler.HandleSavings)
		})
	})

	return r
}
