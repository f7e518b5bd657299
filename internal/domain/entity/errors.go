package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRecord is wrapped by every ValidationError.
	ErrInvalidRecord = errors.New("invalid catalog record")

	// ErrInvalidCatalog means the source catalog yielded no usable feed target.
	ErrInvalidCatalog = errors.New("invalid source catalog")
)

// ValidationError names the catalog field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap makes errors.Is(err, ErrInvalidRecord) true for any ValidationError.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidRecord
}
