package routers

import (
	"net/http"

	"internhub/internal/handlers"

	"github.com/go-chi/chi/v5"
)

// Authenticator is the bearer-token middleware protecting non-public routes.
type Authenticator func(http.Handler) http.Handler

func AuthRoutes(r *chi.Mux, authHandler *handlers.AuthHandler, auth Authenticator) {
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", authHandler.LoginHandler)       // User login
		r.Post("/register", authHandler.RegisterHandler) // User registration
		r.With(auth).Get("/me", authHandler.MeHandler)   // Current user
		r.With(auth).Put("/password", authHandler.ChangePasswordHandler)
	})
}
