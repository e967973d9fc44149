// Package api holds the HTTP plumbing shared by every handler: the JSON
// response helpers, the error envelope and the middleware chain.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// WriteJSON marshals v as JSON and writes it to w with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

// CollectionResponse is the generic list response shape.
type CollectionResponse struct {
	Results []any `json:"results"`
	Total   int   `json:"total"`
}

// NewCollectionResponse wraps a typed slice in a CollectionResponse.
func NewCollectionResponse[T any](items []T) CollectionResponse {
	results := make([]any, len(items))
	for i := range items {
		results[i] = items[i]
	}
	return CollectionResponse{Results: results, Total: len(items)}
}
