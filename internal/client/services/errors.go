package services

import (
	"errors"
	"strings"
)

var (
	// ErrNoDraft is returned by Finalize when no donation is in progress.
	ErrNoDraft = errors.New("no donation in progress")

	// ErrCheckoutInProgress is returned by Finalize while another Finalize
	// is still waiting on the backend.
	ErrCheckoutInProgress = errors.New("donation is already being submitted")

	// ErrNotAuthorized is returned when the session role does not allow an
	// operation.
	ErrNotAuthorized = errors.New("access denied")
)

// FieldProblem describes one invalid form field.
type FieldProblem struct {
	Field  string
	Reason string
}

// ValidationError lists the fields that failed local validation. It is
// returned before any request reaches the backend.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field+": "+p.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, reason string) {
	e.Problems = append(e.Problems, FieldProblem{Field: field, Reason: reason})
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, p := range e.Problems {
		if p.Field == field {
			return true
		}
	}
	return false
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}
