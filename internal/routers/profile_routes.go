package routers

import (
	"internhub/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func ProfileRoutes(r *chi.Mux, profileHandler *handlers.ProfileHandler, auth Authenticator) {
	r.Route("/api/v1/profile", func(r chi.Router) {
		r.Use(auth)
		r.Get("/", profileHandler.GetProfileHandler)
		r.Put("/", profileHandler.UpdateProfileHandler)
		r.Post("/cv", profileHandler.UploadCVHandler)
	})
}
