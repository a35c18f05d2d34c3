/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

import (
	"errors"
	"fmt"
)

// ErrNotFound is the sentinel for a referenced item/project id that is
// absent from the store. Callers match it with errors.Is.
var ErrNotFound = errors.New("not found")

// NotFoundError carries the missing id. It unwraps to ErrNotFound.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item %s: not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound creates a NotFoundError for the given id.
func NewNotFound(id string) error {
	return &NotFoundError{ID: id}
}

// InvalidTransitionError rejects an illegal mutation (e.g. a non-project
// parent) before any write happens.
type InvalidTransitionError struct {
	ID     string
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition for %s: %s", e.ID, e.Reason)
}

// OracleError wraps a failed external capability call. Components absorb it
// with a documented fallback instead of halting the funnel.
type OracleError struct {
	Capability string
	Err        error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("oracle %s unavailable: %v", e.Capability, e.Err)
}

func (e *OracleError) Unwrap() error { return e.Err }

// IsOracleError reports whether err came from an external capability.
func IsOracleError(err error) bool {
	var oe *OracleError
	return errors.As(err, &oe)
}
