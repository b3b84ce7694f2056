package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/akarlov/privacymeter/internal/middleware"
	"github.com/akarlov/privacymeter/internal/token"
)

// NewRouter constructs and returns an HTTP handler that serves the
// privacy score API. It applies JSON content-type enforcement, request
// logging, and rate limiting, and mounts the auth endpoints publicly
// with everything else behind bearer-token authentication.
//
// Routes:
//
//	POST   /api/v1/auth/register             → authHandler.Register
//	POST   /api/v1/auth/login                → authHandler.Login
//	GET    /api/v1/services                  → servicesHandler.ListCatalog
//	POST   /api/v1/users/me/services         → servicesHandler.Track
//	GET    /api/v1/users/me/services         → servicesHandler.ListTracked
//	DELETE /api/v1/users/me/services/{id}    → servicesHandler.Untrack
//	POST   /api/v1/users/me/preferences      → servicesHandler.SetPreference
//	GET    /api/v1/users/me/preferences      → servicesHandler.ListPreferences
//	POST   /api/v1/privacy/score/calculate   → privacyHandler.Calculate
//	GET    /api/v1/privacy/score             → privacyHandler.Latest
//	GET    /api/v1/privacy/score/history     → privacyHandler.History
func NewRouter(
	authHandler *AuthHandler,
	privacyHandler *PrivacyHandler,
	servicesHandler *ServicesHandler,
	tokens *token.Manager,
	limiter *middleware.RateLimiter,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	// Throttle clients by remote IP
	r.Use(middleware.WithRateLimit(limiter))

	// Mount API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(tokens))

			r.Get("/services", servicesHandler.ListCatalog)

			r.Route("/users/me", func(r chi.Router) {
				r.Post("/services", servicesHandler.Track)
				r.Get("/services", servicesHandler.ListTracked)
				r.Delete("/services/{serviceID}", servicesHandler.Untrack)
				r.Post("/preferences", servicesHandler.SetPreference)
				r.Get("/preferences", servicesHandler.ListPreferences)
			})

			r.Route("/privacy", func(r chi.Router) {
				r.Post("/score/calculate", privacyHandler.Calculate)
				r.Get("/score", privacyHandler.Latest)
				r.Get("/score/history", privacyHandler.History)
			})
		})
	})

	return r
}
