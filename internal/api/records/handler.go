// Package records serves the read endpoints for contacts and opportunities
// produced by conversion.
package records

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nestcare/crm/internal/api"
	"github.com/nestcare/crm/internal/auth"
	"github.com/nestcare/crm/internal/store"
)

// Handler serves the contact and opportunity endpoints.
type Handler struct {
	store store.RecordStore
	authz auth.Authorizer
}

// NewHandler creates a new records Handler.
func NewHandler(s store.RecordStore, authz auth.Authorizer) *Handler {
	return &Handler{store: s, authz: authz}
}

// GetContact retrieves a single contact.
func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	actor, err := h.authz.Require(r.Context())
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	contact, err := h.store.GetContact(r.Context(), actor.TenantID, chi.URLParam(r, "contactID"))
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	api.WriteJSON(w, http.StatusOK, contact)
}

// ListContactActivities returns the activities attached to a contact,
// including those transferred from a converted lead.
func (h *Handler) ListContactActivities(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	actor, err := h.authz.Require(r.Context())
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	contactID := chi.URLParam(r, "contactID")
	if _, err := h.store.GetContact(r.Context(), actor.TenantID, contactID); err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	activities, err := h.store.ListActivitiesFor(r.Context(), "Contact", contactID)
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	api.WriteJSON(w, http.StatusOK, api.NewCollectionResponse(activities))
}

// GetOpportunity retrieves a single opportunity.
func (h *Handler) GetOpportunity(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	actor, err := h.authz.Require(r.Context())
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	opp, err := h.store.GetOpportunity(r.Context(), actor.TenantID, chi.URLParam(r, "opportunityID"))
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	api.WriteJSON(w, http.StatusOK, opp)
}

// RegisterRoutes mounts the contact and opportunity endpoints on r.
func RegisterRoutes(r chi.Router, s store.RecordStore, authz auth.Authorizer) {
	h := NewHandler(s, authz)

	r.Get("/contacts/{contactID}", h.GetContact)
	r.Get("/contacts/{contactID}/activities", h.ListContactActivities)
	r.Get("/opportunities/{opportunityID}", h.GetOpportunity)
}
