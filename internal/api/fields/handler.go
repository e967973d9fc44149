// Package fields serves the field definition and picklist value endpoints.
package fields

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nestcare/crm/internal/api"
	"github.com/nestcare/crm/internal/auth"
	"github.com/nestcare/crm/internal/store"
)

// Handler serves the field definition endpoints.
type Handler struct {
	store store.FieldStore
	authz auth.Authorizer
}

// NewHandler creates a new fields Handler.
func NewHandler(s store.FieldStore, authz auth.Authorizer) *Handler {
	return &Handler{store: s, authz: authz}
}

// ListForObject returns the object's active fields with their picklist sets.
func (h *Handler) ListForObject(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	if _, err := h.authz.Require(r.Context()); err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	fields, err := h.store.ListForObject(r.Context(), chi.URLParam(r, "objectID"))
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	api.WriteJSON(w, http.StatusOK, api.NewCollectionResponse(fields))
}

// Create adds a custom field to an object.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	if _, err := h.authz.Require(r.Context()); err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	var input store.FieldInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid input JSON", corrID))
		return
	}
	input.ObjectID = chi.URLParam(r, "objectID")

	created, err := h.store.Create(r.Context(), input)
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	api.WriteJSON(w, http.StatusCreated, created)
}

// Get retrieves a single field definition.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	if _, err := h.authz.Require(r.Context()); err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	field, err := h.store.GetByID(r.Context(), chi.URLParam(r, "fieldID"))
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	api.WriteJSON(w, http.StatusOK, field)
}

// Update modifies a field's label, ordering or requiredness.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	if _, err := h.authz.Require(r.Context()); err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	var patch store.FieldPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid input JSON", corrID))
		return
	}

	updated, err := h.store.Update(r.Context(), chi.URLParam(r, "fieldID"), patch)
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	api.WriteJSON(w, http.StatusOK, updated)
}

// Deactivate hides a field from the metadata resolver.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	if _, err := h.authz.Require(r.Context()); err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	if err := h.store.Deactivate(r.Context(), chi.URLParam(r, "fieldID")); err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddPicklistValue appends an option to a picklist field.
func (h *Handler) AddPicklistValue(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	if _, err := h.authz.Require(r.Context()); err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	var input store.PicklistValueInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid input JSON", corrID))
		return
	}

	created, err := h.store.AddPicklistValue(r.Context(), chi.URLParam(r, "fieldID"), input)
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	api.WriteJSON(w, http.StatusCreated, created)
}

// ListPicklistValues returns the field's active options in display order.
func (h *Handler) ListPicklistValues(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	if _, err := h.authz.Require(r.Context()); err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	values, err := h.store.ListPicklistValues(r.Context(), chi.URLParam(r, "fieldID"))
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	api.WriteJSON(w, http.StatusOK, api.NewCollectionResponse(values))
}
