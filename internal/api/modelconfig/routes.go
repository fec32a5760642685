package modelconfig

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers model configuration routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/config", func(r chi.Router) {
		r.Get("/model", h.Get)
		r.Put("/model", h.Update)
	})
}
