// Package lifecycle implements the workflow state machine and the guarded
// activation gate.
package lifecycle

import (
	"errors"
	"fmt"

	"github.com/engagekit/engage/pkg/persistence"
)

var (
	// ErrWorkflowNotFound is returned when a workflow is not found.
	ErrWorkflowNotFound = persistence.ErrWorkflowNotFound

	// Validation errors (400).
	ErrWorkflowNil          = errors.New("workflow cannot be nil")
	ErrWorkflowNameRequired = errors.New("workflow name is required")

	// Activation guard failures (409). The workflow is left unchanged and
	// retrying after fixing the cause is safe.
	ErrWorkflowInvalid = errors.New("workflow graph is invalid")
	ErrNoActiveChannel = errors.New("no active connected channel for this workflow")
	ErrAlreadyActive   = errors.New("workflow is already active")
)

// ServiceError wraps lifecycle errors with operation context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks for errors that should map to HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrWorkflowNil) ||
		errors.Is(err, ErrWorkflowNameRequired)
}

// IsActivationRefused checks for activation guard failures (HTTP 409).
func IsActivationRefused(err error) bool {
	return errors.Is(err, ErrWorkflowInvalid) ||
		errors.Is(err, ErrNoActiveChannel) ||
		errors.Is(err, ErrAlreadyActive)
}
