// Package file provides file-based persistence for workflows. Each workflow
// is stored as one JSON document under <root>/workflows, which matches the
// whole-document, last-writer-wins save model of the editor.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/engagekit/engage/pkg/models"
	"github.com/engagekit/engage/pkg/persistence"
)

// Persistence implements persistence.Persistence on the local filesystem.
type Persistence struct {
	root string
}

// NewPersistence creates a file persistence rooted at the given directory.
// Accepts plain paths and file:// URLs.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{root: cleanRoot}
}

func (p *Persistence) workflowsDir() string {
	return filepath.Join(p.root, "workflows")
}

func (p *Persistence) workflowPath(id string) string {
	return filepath.Join(p.workflowsDir(), id+".json")
}

// Close performs any necessary cleanup. Nothing to do for files.
func (p *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists.
func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Workflows returns all non-deleted workflows.
func (p *Persistence) Workflows(ctx context.Context) ([]*models.Workflow, error) {
	root := os.DirFS(p.workflowsDir())

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow files: %w", err)
	}

	workflows := make([]*models.Workflow, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		id := strings.TrimSuffix(file, ".json")

		workflow, err := p.WorkflowByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load workflow %s: %w", id, err)
		}

		if workflow != nil {
			workflows = append(workflows, workflow)
		}
	}

	return workflows, nil
}

// ActiveWorkflows returns the workflows currently matching events.
func (p *Persistence) ActiveWorkflows(ctx context.Context) ([]*models.Workflow, error) {
	all, err := p.Workflows(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]*models.Workflow, 0, len(all))

	for _, workflow := range all {
		if workflow.IsActive() {
			active = append(active, workflow)
		}
	}

	return active, nil
}

// WorkflowByID returns a workflow or nil when it does not exist.
func (p *Persistence) WorkflowByID(_ context.Context, id string) (*models.Workflow, error) {
	raw, err := os.ReadFile(p.workflowPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, &persistence.WorkflowError{Op: "GetByID", WorkflowID: id, Err: err}
	}

	var workflow models.Workflow

	err = json.Unmarshal(raw, &workflow)
	if err != nil {
		return nil, &persistence.WorkflowError{
			Op:         "GetByID",
			WorkflowID: id,
			Err:        fmt.Errorf("%w: %w", persistence.ErrInvalidWorkflow, err),
		}
	}

	if workflow.DeletedAt != nil {
		return nil, nil
	}

	return &workflow, nil
}

// SaveWorkflow creates or fully replaces a workflow document.
func (p *Persistence) SaveWorkflow(_ context.Context, workflow *models.Workflow) error {
	err := os.MkdirAll(p.workflowsDir(), 0o755)
	if err != nil {
		return &persistence.WorkflowError{Op: "Save", WorkflowID: workflow.ID, Err: err}
	}

	raw, err := json.MarshalIndent(workflow, "", "  ")
	if err != nil {
		return &persistence.WorkflowError{Op: "Save", WorkflowID: workflow.ID, Err: err}
	}

	err = os.WriteFile(p.workflowPath(workflow.ID), raw, 0o644)
	if err != nil {
		return &persistence.WorkflowError{Op: "Save", WorkflowID: workflow.ID, Err: err}
	}

	return nil
}

// SetWorkflowActive flips the activation flag in place.
func (p *Persistence) SetWorkflowActive(ctx context.Context, id string, active bool) error {
	workflow, err := p.WorkflowByID(ctx, id)
	if err != nil {
		return err
	}

	if workflow == nil {
		return &persistence.WorkflowError{Op: "SetActive", WorkflowID: id, Err: persistence.ErrWorkflowNotFound}
	}

	if active {
		workflow.Status = models.WorkflowStatusActive
	} else {
		workflow.Status = models.WorkflowStatusSaved
	}

	workflow.UpdatedAt = time.Now().UTC()

	return p.SaveWorkflow(ctx, workflow)
}

// DeleteWorkflow soft-deletes a workflow by stamping DeletedAt.
func (p *Persistence) DeleteWorkflow(ctx context.Context, id string) error {
	workflow, err := p.WorkflowByID(ctx, id)
	if err != nil {
		return err
	}

	if workflow == nil {
		return &persistence.WorkflowError{Op: "Delete", WorkflowID: id, Err: persistence.ErrWorkflowNotFound}
	}

	now := time.Now().UTC()
	workflow.DeletedAt = &now
	workflow.UpdatedAt = now

	return p.SaveWorkflow(ctx, workflow)
}
