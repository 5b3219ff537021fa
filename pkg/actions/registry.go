// Package actions provides the executor registry and the built-in action
// executors for the automation engine.
package actions

import (
	"fmt"

	"github.com/engagekit/engage/pkg/models"
	"github.com/engagekit/engage/pkg/protocol"
)

// Registry maps action subtypes to their executors.
type Registry struct {
	executors map[models.ActionType]protocol.ActionExecutor
}

// NewRegistry creates an empty executor registry.
func NewRegistry() *Registry {
	return &Registry{
		executors: make(map[models.ActionType]protocol.ActionExecutor),
	}
}

// Register adds an executor, replacing any previous one for the subtype.
func (r *Registry) Register(executor protocol.ActionExecutor) {
	r.executors[executor.ID()] = executor
}

// ExecutorFor returns the executor for an action subtype.
func (r *Registry) ExecutorFor(actionType models.ActionType) (protocol.ActionExecutor, error) {
	executor, exists := r.executors[actionType]
	if !exists {
		return nil, fmt.Errorf("action type %q not registered", actionType)
	}

	return executor, nil
}
