// Package metadata serves the resolved metadata bundle endpoint consumed by
// form and list rendering.
package metadata

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nestcare/crm/internal/api"
	"github.com/nestcare/crm/internal/auth"
	"github.com/nestcare/crm/internal/store"
)

// Handler serves the metadata resolution endpoint.
type Handler struct {
	store store.MetadataStore
	authz auth.Authorizer
}

// NewHandler creates a new metadata Handler.
func NewHandler(s store.MetadataStore, authz auth.Authorizer) *Handler {
	return &Handler{store: s, authz: authz}
}

// Get resolves the metadata bundle for an object by api name. The optional
// recordTypeId query parameter selects a record type specific layout.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	actor, err := h.authz.Require(r.Context())
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	md, err := h.store.GetObjectMetadata(r.Context(),
		actor.TenantID,
		chi.URLParam(r, "apiName"),
		r.URL.Query().Get("recordTypeId"))
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	api.WriteJSON(w, http.StatusOK, md)
}

// RegisterRoutes mounts the metadata endpoint on r.
func RegisterRoutes(r chi.Router, s store.MetadataStore, authz auth.Authorizer) {
	h := NewHandler(s, authz)
	r.Get("/metadata/{apiName}", h.Get)
}
