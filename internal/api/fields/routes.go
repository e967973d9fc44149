package fields

import (
	"github.com/go-chi/chi/v5"

	"github.com/nestcare/crm/internal/auth"
	"github.com/nestcare/crm/internal/store"
)

// RegisterRoutes mounts the field definition endpoints on r.
func RegisterRoutes(r chi.Router, s store.FieldStore, authz auth.Authorizer) {
	h := NewHandler(s, authz)

	r.Route("/objects/{objectID}/fields", func(r chi.Router) {
		r.Get("/", h.ListForObject)
		r.Post("/", h.Create)
	})

	r.Route("/fields/{fieldID}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Patch("/", h.Update)
		r.Post("/deactivate", h.Deactivate)
		r.Get("/picklist-values", h.ListPicklistValues)
		r.Post("/picklist-values", h.AddPicklistValue)
	})
}
