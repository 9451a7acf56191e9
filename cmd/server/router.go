package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shelfmark/shelfmark-api/internal/api"
	apiMiddleware "github.com/shelfmark/shelfmark-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. It accepts the application dependencies to create handlers
// and register routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordHasher,
		app.passwordVerifier,
	)
	taskHandler := api.NewTaskHandler(app.taskEngine)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	rateLimits := apiMiddleware.NewRateLimitMiddleware(app.limiter)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public, rate limited per client)
		r.With(rateLimits.Limit("register", app.config.RateLimit.Register)).
			Post("/auth/register", authHandler.Register)
		r.With(rateLimits.Limit("login", app.config.RateLimit.Login)).
			Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/tasks", taskHandler.Submit)
			r.Get("/tasks/{id}", taskHandler.GetTask)
			r.Post("/tasks/{id}/retry", taskHandler.Retry)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
