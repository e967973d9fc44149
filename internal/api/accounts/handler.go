// Package accounts serves the account lookup and record endpoints used by
// the conversion flow.
package accounts

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nestcare/crm/internal/api"
	"github.com/nestcare/crm/internal/auth"
	"github.com/nestcare/crm/internal/conversion"
	"github.com/nestcare/crm/internal/store"
)

// Handler serves the account endpoints.
type Handler struct {
	store    store.RecordStore
	pipeline *conversion.Pipeline
	authz    auth.Authorizer
}

// NewHandler creates a new accounts Handler.
func NewHandler(s store.RecordStore, p *conversion.Pipeline, authz auth.Authorizer) *Handler {
	return &Handler{store: s, pipeline: p, authz: authz}
}

// Search matches accounts by name for the "link to existing account" picker.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	matches, err := h.pipeline.SearchAccounts(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	api.WriteJSON(w, http.StatusOK, api.NewCollectionResponse(matches))
}

// Get retrieves a single account.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	actor, err := h.authz.Require(r.Context())
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	account, err := h.store.GetAccount(r.Context(), actor.TenantID, chi.URLParam(r, "accountID"))
	if err != nil {
		api.WriteDomainError(w, err, corrID)
		return
	}

	api.WriteJSON(w, http.StatusOK, account)
}

// RegisterRoutes mounts the account endpoints on r.
func RegisterRoutes(r chi.Router, s store.RecordStore, p *conversion.Pipeline, authz auth.Authorizer) {
	h := NewHandler(s, p, authz)

	r.Route("/accounts", func(r chi.Router) {
		r.Get("/search", h.Search)
		r.Get("/{accountID}", h.Get)
	})
}
