package model

import (
	"errors"
	"fmt"
	"strings"
)

// Semantic rejection kinds. Handlers map these to HTTP statuses; the store
// never wraps them in a way that hides them from errors.Is.
var (
	ErrNotFound             = errors.New("not found")
	ErrNotOwner             = errors.New("caller does not own this list")
	ErrEmailTaken           = errors.New("email already registered")
	ErrListArchived         = errors.New("list is archived")
	ErrEventExpired         = errors.New("event date has passed")
	ErrParcelClaimed        = errors.New("parcel already claimed")
	ErrParcelNotClaimed     = errors.New("parcel is not claimed")
	ErrIdentifierMismatch   = errors.New("identifier does not match the claim")
	ErrInvalidIdentifier    = errors.New("identifier must be exactly 11 digits")
	ErrInvalidName          = errors.New("name is required")
	ErrInvalidQuantity      = errors.New("quantity must be a positive number")
	ErrImmutableFieldChange = errors.New("item fields cannot change while parcels are claimed")
	ErrBelowClaimedFloor    = errors.New("total quantity is below the number of claimed parcels")
	ErrItemRemovalDenied    = errors.New("cannot remove an item with claimed parcels")
)

// FieldError is a single violated constraint on a named input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every violated field of a request so the client
// can surface all of them at once instead of fixing them one by one.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a violation. Returns the receiver for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
	return e
}

// OrNil returns the error if any field was violated, nil otherwise.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
