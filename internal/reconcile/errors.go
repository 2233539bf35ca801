package reconcile

import (
	"fmt"
	"strings"
)

// FieldProblem describes one invalid field of a request.
type FieldProblem struct {
	Field   string `json:"campo"`
	Message string `json:"mensagem"`
}

// ValidationError carries every field-level problem found before any state
// was touched. The workflow never persists anything when it returns one.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = fmt.Sprintf("%s: %s", p.Field, p.Message)
	}
	return "invalid payment request: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Problems = append(e.Problems, FieldProblem{Field: field, Message: message})
}

// NotFoundError marks a referenced person, transaction or payment that does
// not exist or is soft-deleted.
type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// ConflictError marks a concurrent modification detected by the storage
// layer. Callers may retry the whole operation.
type ConflictError struct {
	Err error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("concurrent modification detected: %v", e.Err)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// PolicyError marks an excess materialization blocked by the hub
// configuration. It is informational; the payment itself succeeds.
type PolicyError struct {
	Reason string
}

func (e *PolicyError) Error() string { return e.Reason }
