package routers

import (
	"internhub/internal/handlers"
	"internhub/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func ApplicationRoutes(r *chi.Mux, applicationHandler *handlers.ApplicationHandler, auth Authenticator) {
	r.Route("/api/v1/applications", func(r chi.Router) {
		r.Use(auth)
		r.Get("/mine", applicationHandler.MyApplicationsHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireStaff)
			r.Get("/", applicationHandler.ListApplicationsHandler)
			r.Get("/{id}", applicationHandler.GetApplicationHandler)
			r.Patch("/{id}/status", applicationHandler.SetStatusHandler)
			r.Delete("/{id}", applicationHandler.DeleteApplicationHandler)
		})
	})
}
