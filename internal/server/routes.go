package server

import "github.com/go-chi/chi/v5"

// SetupRoutes registers the API routes.
func SetupRoutes(router chi.Router, h *Handlers) {
	router.Get("/healthz", h.Health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/g2p", h.Convert)
		r.Get("/langs", h.Langs)
		r.Get("/descendants/{node}", h.Descendants)
		r.Get("/ancestors/{node}", h.Ancestors)
		r.Get("/events", h.Events)
	})
}
