// Package objects serves the object definition endpoints: the catalog of
// standard and custom entities a tenant can work with.
package objects

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nestcare/crm/internal/api"
	"github.com/nestcare/crm/internal/auth"
	"github.com/nestcare/crm/internal/store"
)

// Handler serves the object definition endpoints.
type Handler struct {
	store store.ObjectStore
	authz auth.Authorizer
}

// NewHandler creates a new objects Handler.
func NewHandler(s store.ObjectStore, authz auth.Authorizer) *Handler {
	return &Handler{store: s, authz: authz}
}

// List returns the definitions visible to the tenant. The scope query
// parameter narrows the listing to standard or custom definitions.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	actor, err := h.authz.Require(r.Context())
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	var defs any
	switch r.URL.Query().Get("scope") {
	case "standard":
		standard, err := h.store.GetStandard(r.Context())
		if err != nil {
			api.WriteDomainError(w, err, corrID)
			return
		}
		defs = api.NewCollectionResponse(standard)
	case "custom":
		custom, err := h.store.GetCustom(r.Context(), actor.TenantID)
		if err != nil {
			api.WriteDomainError(w, err, corrID)
			return
		}
		defs = api.NewCollectionResponse(custom)
	default:
		all, err := h.store.GetAll(r.Context(), actor.TenantID)
		if err != nil {
			api.WriteDomainError(w, err, corrID)
			return
		}
		defs = api.NewCollectionResponse(all)
	}

	api.WriteJSON(w, http.StatusOK, defs)
}

// Create adds a new custom object definition.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	actor, err := h.authz.Require(r.Context())
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	var input store.ObjectInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid input JSON", corrID))
		return
	}
	input.TenantID = actor.TenantID
	input.CreatedBy = actor.UserID

	created, err := h.store.Create(r.Context(), input)
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	api.WriteJSON(w, http.StatusCreated, created)
}

// Get retrieves a single object definition by id.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	if _, err := h.authz.Require(r.Context()); err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	def, err := h.store.GetByID(r.Context(), chi.URLParam(r, "objectID"))
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	api.WriteJSON(w, http.StatusOK, def)
}

// Update partially modifies a custom object definition.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	if _, err := h.authz.Require(r.Context()); err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	var patch store.ObjectPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid input JSON", corrID))
		return
	}

	updated, err := h.store.Update(r.Context(), chi.URLParam(r, "objectID"), patch)
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	api.WriteJSON(w, http.StatusOK, updated)
}

// Deactivate hides a custom object definition without deleting it.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	if _, err := h.authz.Require(r.Context()); err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	if err := h.store.Deactivate(r.Context(), chi.URLParam(r, "objectID")); err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete removes a custom object definition and its metadata.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	if _, err := h.authz.Require(r.Context()); err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	if err := h.store.Delete(r.Context(), chi.URLParam(r, "objectID")); err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
