package leads

import (
	"github.com/go-chi/chi/v5"

	"github.com/nestcare/crm/internal/auth"
	"github.com/nestcare/crm/internal/conversion"
	"github.com/nestcare/crm/internal/store"
)

// RegisterRoutes mounts the lead and conversion endpoints on r.
func RegisterRoutes(r chi.Router, s store.RecordStore, p *conversion.Pipeline, authz auth.Authorizer) {
	h := NewHandler(s, p, authz)

	r.Route("/leads", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{leadID}", h.Get)
		r.Post("/{leadID}/convert", h.Convert)
		r.Get("/{leadID}/convert/validate", h.ValidateConversion)
		r.Post("/{leadID}/convert/preview", h.PreviewConversion)
		r.Get("/{leadID}/activities", h.ListActivities)
		r.Post("/{leadID}/activities", h.CreateActivity)
	})
}
