package userpermissions

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers grant routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/v1/user-permissions", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Grant)
		r.Get("/check", h.Check)
		r.Delete("/{id}", h.Revoke)
		r.Post("/{id}/restore", h.Restore)
	})
}
