package routers

import (
	"internhub/internal/handlers"
	"internhub/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func InterviewRoutes(r *chi.Mux, interviewHandler *handlers.InterviewHandler, auth Authenticator) {
	r.Route("/api/v1/interviews", func(r chi.Router) {
		r.Use(auth)
		r.Get("/mine", interviewHandler.MyInterviewsHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireStaff)
			r.Get("/", interviewHandler.ListInterviewsHandler)
			r.Get("/upcoming", interviewHandler.UpcomingHandler)
			r.Post("/", interviewHandler.CreateInterviewHandler)
			r.Get("/{id}", interviewHandler.GetInterviewHandler)
			r.Put("/{id}", interviewHandler.UpdateInterviewHandler)
			r.Patch("/{id}/status", interviewHandler.SetStatusHandler)
			r.Patch("/{id}/archive", interviewHandler.ArchiveInterviewHandler)
		})
	})
}
