package document

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers document routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/documents", func(r chi.Router) {
		r.Post("/upload", h.Upload)
		r.Get("/", h.List)
		r.Get("/{id}/status", h.Status)
		r.Delete("/{id}", h.Delete)
	})
}
