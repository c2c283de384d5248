package routers

import (
	"internhub/internal/handlers"
	"internhub/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func DashboardRoutes(r *chi.Mux, dashboardHandler *handlers.DashboardHandler, auth Authenticator) {
	r.Route("/api/v1/dashboard", func(r chi.Router) {
		r.Use(auth)
		r.With(middleware.RequireStaff).Get("/", dashboardHandler.StaffDashboardHandler)
		r.Get("/me", dashboardHandler.ApplicantDashboardHandler)
	})
}
