package routers

import (
	"internhub/internal/handlers"
	"internhub/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func OfferRoutes(r *chi.Mux, offerHandler *handlers.OfferHandler, applicationHandler *handlers.ApplicationHandler, auth Authenticator) {
	r.Route("/api/v1/offers", func(r chi.Router) {
		r.Get("/", offerHandler.ListOffersHandler)
		r.Get("/departments", offerHandler.DepartmentsHandler)
		r.Get("/{id}", offerHandler.GetOfferHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Post("/{id}/apply", applicationHandler.ApplyHandler)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaff)
				r.Post("/", offerHandler.CreateOfferHandler)
				r.Put("/{id}", offerHandler.UpdateOfferHandler)
				r.Patch("/{id}/archive", offerHandler.ArchiveOfferHandler)
			})
		})
	})
}
