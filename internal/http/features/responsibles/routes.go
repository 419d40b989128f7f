package responsibles

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers responsible routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/v1/responsibles", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/stats", h.Stats)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/restore", h.Restore)
	})
}
