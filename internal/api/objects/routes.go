package objects

import (
	"github.com/go-chi/chi/v5"

	"github.com/nestcare/crm/internal/auth"
	"github.com/nestcare/crm/internal/store"
)

// RegisterRoutes mounts the object definition endpoints on r.
func RegisterRoutes(r chi.Router, s store.ObjectStore, authz auth.Authorizer) {
	h := NewHandler(s, authz)

	r.Route("/objects", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{objectID}", h.Get)
		r.Patch("/{objectID}", h.Update)
		r.Post("/{objectID}/deactivate", h.Deactivate)
		r.Delete("/{objectID}", h.Delete)
	})
}
