package persistence

import (
	"errors"
	"fmt"
)

var (
	// ErrWorkflowNotFound indicates a workflow was not found by the given id.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrInvalidWorkflow indicates a workflow document failed to decode.
	ErrInvalidWorkflow = errors.New("invalid workflow document")
)

// WorkflowError wraps workflow storage errors with operation context.
type WorkflowError struct {
	Op         string // Operation being performed (e.g., "GetByID", "Save")
	WorkflowID string
	Err        error
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("%s operation failed for workflow %s: %v", e.Op, e.WorkflowID, e.Err)
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

// IsWorkflowNotFound reports whether err indicates a missing workflow.
func IsWorkflowNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound)
}
