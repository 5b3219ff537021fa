// Package postgresql provides PostgreSQL persistence for workflows. Node
// and edge sets are stored as JSONB documents alongside the workflow row,
// which preserves the whole-document save model while keeping status and
// channel columns indexable for the matching path.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq" // postgres driver

	"github.com/engagekit/engage/pkg/models"
	"github.com/engagekit/engage/pkg/persistence/sqlbase"
)

// Persistence implements persistence.Persistence on PostgreSQL.
type Persistence struct {
	db           *sql.DB
	logger       *slog.Logger
	workflowRepo *WorkflowRepository
}

// NewPersistence connects, pings and migrates the database.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Persistence{
		db:           database,
		logger:       logger,
		workflowRepo: NewWorkflowRepository(database, logger),
	}, nil
}

// Close closes the database connection.
func (p *Persistence) Close(_ context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// Workflows returns all non-deleted workflows.
func (p *Persistence) Workflows(ctx context.Context) ([]*models.Workflow, error) {
	return p.workflowRepo.GetAll(ctx)
}

// ActiveWorkflows returns the workflows currently matching events.
func (p *Persistence) ActiveWorkflows(ctx context.Context) ([]*models.Workflow, error) {
	return p.workflowRepo.GetByStatus(ctx, models.WorkflowStatusActive)
}

// WorkflowByID returns a workflow or nil when it does not exist.
func (p *Persistence) WorkflowByID(ctx context.Context, id string) (*models.Workflow, error) {
	return p.workflowRepo.GetByID(ctx, id)
}

// SaveWorkflow creates or fully replaces a workflow document.
func (p *Persistence) SaveWorkflow(ctx context.Context, workflow *models.Workflow) error {
	return p.workflowRepo.Save(ctx, workflow)
}

// SetWorkflowActive flips the activation flag without touching content.
func (p *Persistence) SetWorkflowActive(ctx context.Context, id string, active bool) error {
	return p.workflowRepo.SetActive(ctx, id, active)
}

// DeleteWorkflow soft deletes a workflow by setting deleted_at.
func (p *Persistence) DeleteWorkflow(ctx context.Context, id string) error {
	return p.workflowRepo.Delete(ctx, id)
}
