package layouts

import (
	"github.com/go-chi/chi/v5"

	"github.com/nestcare/crm/internal/auth"
	"github.com/nestcare/crm/internal/store"
)

// RegisterRoutes mounts the layout and record type endpoints on r.
func RegisterRoutes(r chi.Router, s store.LayoutStore, authz auth.Authorizer) {
	h := NewHandler(s, authz)

	r.Route("/objects/{objectID}/layouts", func(r chi.Router) {
		r.Get("/", h.ListLayouts)
		r.Post("/", h.CreateLayout)
	})

	r.Route("/objects/{objectID}/record-types", func(r chi.Router) {
		r.Get("/", h.ListRecordTypes)
		r.Post("/", h.CreateRecordType)
	})
}
