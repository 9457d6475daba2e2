package server

import "github.com/go-chi/chi/v5"

// SetupRoutes registers the API routes.
func SetupRoutes(router chi.Router, h *Handlers) {
	router.Get("/healthz", h.Health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/session", h.Login)
		r.Delete("/session", h.Logout)

		r.Post("/sqllab/bootstrap", h.Bootstrap)

		r.Route("/tabs", func(r chi.Router) {
			r.Get("/", h.ListTabs)
			r.Post("/", h.CreateTab)
			r.Patch("/{id}", h.UpdateTab)
			r.Post("/{id}/activate", h.ActivateTab)
			r.Delete("/{id}", h.DeleteTab)

			r.Post("/{id}/tables", h.AddTable)
			r.Patch("/{id}/tables/{tableID}", h.SetTableExpanded)
			r.Post("/{id}/queries", h.SaveQuery)
		})

		r.Get("/events", h.Events)
	})
}
