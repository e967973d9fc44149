// Package layouts serves the page layout and record type endpoints.
package layouts

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nestcare/crm/internal/api"
	"github.com/nestcare/crm/internal/auth"
	"github.com/nestcare/crm/internal/store"
)

// Handler serves the layout and record type endpoints.
type Handler struct {
	store store.LayoutStore
	authz auth.Authorizer
}

// NewHandler creates a new layouts Handler.
func NewHandler(s store.LayoutStore, authz auth.Authorizer) *Handler {
	return &Handler{store: s, authz: authz}
}

// ListLayouts returns the object's layouts, default first.
func (h *Handler) ListLayouts(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	if _, err := h.authz.Require(r.Context()); err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	layouts, err := h.store.ListLayouts(r.Context(), chi.URLParam(r, "objectID"))
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	api.WriteJSON(w, http.StatusOK, api.NewCollectionResponse(layouts))
}

// CreateLayout adds a page layout to an object.
func (h *Handler) CreateLayout(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	if _, err := h.authz.Require(r.Context()); err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	var input store.LayoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid input JSON", corrID))
		return
	}
	input.ObjectID = chi.URLParam(r, "objectID")

	created, err := h.store.CreateLayout(r.Context(), input)
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	api.WriteJSON(w, http.StatusCreated, created)
}

// ListRecordTypes returns the object's active record types.
func (h *Handler) ListRecordTypes(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	if _, err := h.authz.Require(r.Context()); err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	types, err := h.store.ListRecordTypes(r.Context(), chi.URLParam(r, "objectID"))
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	api.WriteJSON(w, http.StatusOK, api.NewCollectionResponse(types))
}

// CreateRecordType adds a record type to an object.
func (h *Handler) CreateRecordType(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	if _, err := h.authz.Require(r.Context()); err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	var input store.RecordTypeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid input JSON", corrID))
		return
	}
	input.ObjectID = chi.URLParam(r, "objectID")

	created, err := h.store.CreateRecordType(r.Context(), input)
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	api.WriteJSON(w, http.StatusCreated, created)
}
