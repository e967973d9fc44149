package api

import (
	"errors"
	"net/http"

	"github.com/nestcare/crm/internal/auth"
	"github.com/nestcare/crm/internal/conversion"
	"github.com/nestcare/crm/internal/store"
)

// Error categories reported in the error envelope.
const (
	CategoryValidationError  = "VALIDATION_ERROR"
	CategoryObjectNotFound   = "OBJECT_NOT_FOUND"
	CategoryImmutableEntity  = "IMMUTABLE_ENTITY"
	CategoryAlreadyConverted = "ALREADY_CONVERTED"
	CategoryUnauthorized     = "UNAUTHORIZED"
	CategoryConflict         = "CONFLICT"
	CategoryInternalError    = "INTERNAL_ERROR"
)

// Error is the JSON error envelope returned by every endpoint.
type Error struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId"`
	Category      string `json:"category"`
}

// NewNotFoundError creates a 404 error with the OBJECT_NOT_FOUND category.
func NewNotFoundError(message, correlationID string) *Error {
	return &Error{Status: "error", Message: message, CorrelationID: correlationID, Category: CategoryObjectNotFound}
}

// NewValidationError creates a 400 error with the VALIDATION_ERROR category.
func NewValidationError(message, correlationID string) *Error {
	return &Error{Status: "error", Message: message, CorrelationID: correlationID, Category: CategoryValidationError}
}

// NewUnauthorizedError creates a 401 error with the UNAUTHORIZED category.
func NewUnauthorizedError(message, correlationID string) *Error {
	return &Error{Status: "error", Message: message, CorrelationID: correlationID, Category: CategoryUnauthorized}
}

// WriteError writes an Error as JSON with the given HTTP status code.
func WriteError(w http.ResponseWriter, statusCode int, apiErr *Error) {
	WriteJSON(w, statusCode, apiErr)
}

// WriteDomainError maps a service or store error to the right status code and
// category and writes the envelope. Handlers call this for any error that is
// not handled specially.
func WriteDomainError(w http.ResponseWriter, err error, correlationID string) {
	status := http.StatusInternalServerError
	category := CategoryInternalError
	message := err.Error()

	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		category = CategoryValidationError
		message = verr.Message
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
		category = CategoryObjectNotFound
	case errors.Is(err, store.ErrImmutable):
		status = http.StatusConflict
		category = CategoryImmutableEntity
	case errors.Is(err, store.ErrConflict):
		status = http.StatusConflict
		category = CategoryConflict
	case errors.Is(err, conversion.ErrAlreadyConverted):
		status = http.StatusConflict
		category = CategoryAlreadyConverted
	case errors.Is(err, auth.ErrUnauthorized):
		status = http.StatusUnauthorized
		category = CategoryUnauthorized
	}

	WriteError(w, status, &Error{
		Status:        "error",
		Message:       message,
		CorrelationID: correlationID,
		Category:      category,
	})
}
