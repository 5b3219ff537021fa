// Package persistence provides the storage abstraction for workflow
// definitions. The engine treats storage as a collaborator: any document or
// relational representation works, the engine only needs get/save/delete
// plus an activation flag flip.
package persistence

import (
	"context"

	"github.com/engagekit/engage/pkg/models"
)

type Persistence interface {
	// Workflows returns all non-deleted workflows.
	Workflows(ctx context.Context) ([]*models.Workflow, error)

	// ActiveWorkflows returns the workflows currently matching events.
	ActiveWorkflows(ctx context.Context) ([]*models.Workflow, error)

	// WorkflowByID returns a workflow or nil when it does not exist.
	WorkflowByID(ctx context.Context, id string) (*models.Workflow, error)

	// SaveWorkflow creates or fully replaces a workflow document.
	// Last full save wins; there is no partial node/edge merge.
	SaveWorkflow(ctx context.Context, workflow *models.Workflow) error

	// SetWorkflowActive flips the activation flag without touching content.
	SetWorkflowActive(ctx context.Context, id string, active bool) error

	// DeleteWorkflow soft-deletes a workflow.
	DeleteWorkflow(ctx context.Context, id string) error

	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
