package types

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Taxonomy roots, match with errors.Is
	ErrValidation = errors.New("validation failed")
	ErrDataAccess = errors.New("data access failed")

	// Persistence errors
	ErrNotFound        = errors.New("not found")
	ErrNoteNotArchived = errors.New("note must be archived before deletion")

	// Entity validation errors
	ErrInvalidOwner          = errors.New("owner ID is required")
	ErrEmptyContent          = errors.New("note needs content or at least one link")
	ErrEmptyURL              = errors.New("link URL cannot be empty")
	ErrInvalidCandidateID    = errors.New("invalid candidate ID")
	ErrInvalidResultKind     = errors.New("result kind must be note or link")
	ErrInvalidRelevanceScore = errors.New("relevance score must be between 0 and 1")
)

// ValidationError reports a rejected search input. It is raised before any data access.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a ValidationError for the given field
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// DataAccessError reports a failed fetch from the persistence layer
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() []error {
	return []error{ErrDataAccess, e.Err}
}

// NewDataAccessError wraps err as a DataAccessError, or returns nil for a nil err
func NewDataAccessError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DataAccessError{Op: op, Err: err}
}
