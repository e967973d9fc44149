package store

import "fmt"

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = fmt.Errorf("not found")

// ErrImmutable is returned when a mutation targets a standard definition.
var ErrImmutable = fmt.Errorf("standard object definitions are immutable")

// ErrConflict is returned when a unique constraint is violated.
var ErrConflict = fmt.Errorf("conflict")

// ValidationError reports malformed input (bad api_name, unknown field type,
// bad enum value).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
