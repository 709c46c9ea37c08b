package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/bitemebuddy/admin-api/internal/auth"
	"github.com/bitemebuddy/admin-api/internal/handlers"
	"github.com/bitemebuddy/admin-api/internal/middleware"
)

// RegisterRoutes registers all application routes under /admin.
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	healthHandler *handlers.HealthHandler,
	sessions *auth.SessionManager,
) {
	rateLimitConfig := middleware.DefaultLoginRateLimit()

	router.Route("/admin", func(r chi.Router) {
		// Public routes - no session required
		r.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/login", authHandler.Login)
		r.Get("/health", healthHandler.Health)

		// Protected routes - valid admin session required
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireSession(sessions))

			r.Post("/logout", authHandler.Logout)

			r.Route("/api/users", func(r chi.Router) {
				r.Get("/", userHandler.ListUsers)
				r.Get("/stats", userHandler.Stats)
				r.Get("/export", userHandler.ExportUsers)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", userHandler.GetUser)
					r.Put("/", userHandler.UpdateUser)
					r.Delete("/", userHandler.DeleteUser)
					r.Put("/status", userHandler.UpdateStatus)
					r.Get("/download-pdf", userHandler.DownloadPDF)
					r.Get("/pdf-info", userHandler.PDFInfo)
					r.Get("/photo", userHandler.Photo)
					r.Get("/download-photo", userHandler.DownloadPhoto)
				})
			})
		})
	})
}
