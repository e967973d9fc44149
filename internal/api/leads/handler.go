// Package leads serves the lead endpoints, including the conversion pipeline
// operations.
package leads

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nestcare/crm/internal/api"
	"github.com/nestcare/crm/internal/auth"
	"github.com/nestcare/crm/internal/conversion"
	"github.com/nestcare/crm/internal/domain"
	"github.com/nestcare/crm/internal/store"
)

// Handler serves the lead and conversion endpoints.
type Handler struct {
	store    store.RecordStore
	pipeline *conversion.Pipeline
	authz    auth.Authorizer
}

// NewHandler creates a new leads Handler.
func NewHandler(s store.RecordStore, p *conversion.Pipeline, authz auth.Authorizer) *Handler {
	return &Handler{store: s, pipeline: p, authz: authz}
}

// Create adds a new lead.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	actor, err := h.authz.Require(r.Context())
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	var lead domain.Lead
	if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid input JSON", corrID))
		return
	}
	lead.TenantID = actor.TenantID
	if lead.OwnerID == "" {
		lead.OwnerID = actor.UserID
	}

	created, err := h.store.CreateLead(r.Context(), &lead)
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	api.WriteJSON(w, http.StatusCreated, created)
}

// List returns the tenant's leads. Converted leads are hidden unless the
// includeConverted query parameter is true.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	actor, err := h.authz.Require(r.Context())
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	includeConverted := r.URL.Query().Get("includeConverted") == "true"
	leads, err := h.store.ListLeads(r.Context(), actor.TenantID, includeConverted)
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	api.WriteJSON(w, http.StatusOK, api.NewCollectionResponse(leads))
}

// Get retrieves a single lead.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	actor, err := h.authz.Require(r.Context())
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	lead, err := h.store.GetLead(r.Context(), actor.TenantID, chi.URLParam(r, "leadID"))
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	api.WriteJSON(w, http.StatusOK, lead)
}

// Convert runs the conversion pipeline for a lead. The response body always
// carries the conversion result, with the HTTP status reflecting the outcome.
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	var opts domain.ConvertLeadOptions
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid input JSON", corrID))
		return
	}
	opts.LeadID = chi.URLParam(r, "leadID")

	result, err := h.pipeline.Convert(r.Context(), opts)
	if err != nil {
		api.WriteJSON(w, conversionStatus(err), result)
		return
	}

	api.WriteJSON(w, http.StatusOK, result)
}

// conversionStatus maps a conversion error to the HTTP status for the result
// body.
func conversionStatus(err error) int {
	var verr *store.ValidationError
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, conversion.ErrAlreadyConverted):
		return http.StatusConflict
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &verr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ValidateConversion reports whether the lead can be converted.
func (h *Handler) ValidateConversion(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	validation, err := h.pipeline.Validate(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	api.WriteJSON(w, http.StatusOK, validation)
}

// PreviewConversion returns the records a conversion would create without
// writing anything.
func (h *Handler) PreviewConversion(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	var opts domain.ConvertLeadOptions
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid input JSON", corrID))
		return
	}
	opts.LeadID = chi.URLParam(r, "leadID")

	preview, err := h.pipeline.Preview(r.Context(), opts)
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	api.WriteJSON(w, http.StatusOK, preview)
}

// CreateActivity attaches a new activity to the lead.
func (h *Handler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	actor, err := h.authz.Require(r.Context())
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	var activity domain.Activity
	if err := json.NewDecoder(r.Body).Decode(&activity); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid input JSON", corrID))
		return
	}
	activity.TenantID = actor.TenantID
	activity.WhoType = "Lead"
	activity.WhoID = chi.URLParam(r, "leadID")
	if activity.OwnerID == "" {
		activity.OwnerID = actor.UserID
	}

	// Attaching to a lead the tenant cannot see must fail, not dangle.
	if _, err := h.store.GetLead(r.Context(), actor.TenantID, activity.WhoID); err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	created, err := h.store.CreateActivity(r.Context(), &activity)
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	api.WriteJSON(w, http.StatusCreated, created)
}

// ListActivities returns the lead's activities.
func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	actor, err := h.authz.Require(r.Context())
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	leadID := chi.URLParam(r, "leadID")
	if _, err := h.store.GetLead(r.Context(), actor.TenantID, leadID); err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	activities, err := h.store.ListActivitiesFor(r.Context(), "Lead", leadID)
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	api.WriteJSON(w, http.StatusOK, api.NewCollectionResponse(activities))
}
