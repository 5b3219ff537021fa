package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/engagekit/engage/pkg/models"
	"github.com/engagekit/engage/pkg/persistence"
	"github.com/google/uuid"
)

// WorkflowRepository handles workflow rows and their JSONB graph documents.
type WorkflowRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewWorkflowRepository creates a new workflow repository.
func NewWorkflowRepository(db *sql.DB, logger *slog.Logger) *WorkflowRepository {
	return &WorkflowRepository{db: db, logger: logger}
}

const workflowColumns = `
	id
  , name
  , description
  , org_id
  , channel_id
  , status
  , nodes
  , edges
  , created_at
  , updated_at
  , deleted_at
`

// GetAll returns all non-deleted workflows.
func (r *WorkflowRepository) GetAll(ctx context.Context) ([]*models.Workflow, error) {
	query := `SELECT ` + workflowColumns + `
		FROM workflows
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
	`

	return r.queryWorkflows(ctx, query)
}

// GetByStatus returns non-deleted workflows with the given status.
func (r *WorkflowRepository) GetByStatus(ctx context.Context, status models.WorkflowStatus) ([]*models.Workflow, error) {
	query := `SELECT ` + workflowColumns + `
		FROM workflows
		WHERE status = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`

	return r.queryWorkflows(ctx, query, string(status))
}

func (r *WorkflowRepository) queryWorkflows(ctx context.Context, query string, args ...any) ([]*models.Workflow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query workflows: %w", err)
	}

	defer func() {
		closeErr := rows.Close()
		if closeErr != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", closeErr)
		}
	}()

	workflows := make([]*models.Workflow, 0)

	for rows.Next() {
		workflow, err := scanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow: %w", err)
		}

		workflows = append(workflows, workflow)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating workflows: %w", err)
	}

	return workflows, nil
}

// GetByID returns a workflow or nil when it does not exist.
func (r *WorkflowRepository) GetByID(ctx context.Context, id string) (*models.Workflow, error) {
	query := `SELECT ` + workflowColumns + `
		FROM workflows
		WHERE id = $1 AND deleted_at IS NULL
	`

	workflow, err := scanWorkflow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, &persistence.WorkflowError{Op: "GetByID", WorkflowID: id, Err: err}
	}

	return workflow, nil
}

// Save upserts the workflow row and its graph document in one statement.
func (r *WorkflowRepository) Save(ctx context.Context, workflow *models.Workflow) error {
	now := time.Now().UTC()

	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}

	workflow.UpdatedAt = now

	if workflow.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate workflow ID: %w", err)
		}

		workflow.ID = id.String()
	}

	nodes, err := json.Marshal(workflow.Nodes)
	if err != nil {
		return &persistence.WorkflowError{Op: "Save", WorkflowID: workflow.ID, Err: err}
	}

	edges, err := json.Marshal(workflow.Edges)
	if err != nil {
		return &persistence.WorkflowError{Op: "Save", WorkflowID: workflow.ID, Err: err}
	}

	query := `
		INSERT INTO workflows (id, name, description, org_id, channel_id, status, nodes, edges, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			org_id = EXCLUDED.org_id,
			channel_id = EXCLUDED.channel_id,
			status = EXCLUDED.status,
			nodes = EXCLUDED.nodes,
			edges = EXCLUDED.edges,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		workflow.ID,
		workflow.Name,
		workflow.Description,
		workflow.OrgID,
		workflow.ChannelID,
		string(workflow.Status),
		nodes,
		edges,
		workflow.CreatedAt,
		workflow.UpdatedAt,
	)
	if err != nil {
		return &persistence.WorkflowError{Op: "Save", WorkflowID: workflow.ID, Err: err}
	}

	return nil
}

// SetActive flips the activation flag without rewriting the graph document.
func (r *WorkflowRepository) SetActive(ctx context.Context, id string, active bool) error {
	status := models.WorkflowStatusSaved
	if active {
		status = models.WorkflowStatusActive
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE workflows SET status = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return &persistence.WorkflowError{Op: "SetActive", WorkflowID: id, Err: err}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return &persistence.WorkflowError{Op: "SetActive", WorkflowID: id, Err: err}
	}

	if affected == 0 {
		return &persistence.WorkflowError{Op: "SetActive", WorkflowID: id, Err: persistence.ErrWorkflowNotFound}
	}

	return nil
}

// Delete soft deletes a workflow by stamping deleted_at.
func (r *WorkflowRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE workflows SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return &persistence.WorkflowError{Op: "Delete", WorkflowID: id, Err: err}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return &persistence.WorkflowError{Op: "Delete", WorkflowID: id, Err: err}
	}

	if affected == 0 {
		return &persistence.WorkflowError{Op: "Delete", WorkflowID: id, Err: persistence.ErrWorkflowNotFound}
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkflow(row rowScanner) (*models.Workflow, error) {
	var (
		workflow  models.Workflow
		channelID sql.NullString
		nodes     []byte
		edges     []byte
		status    string
	)

	err := row.Scan(
		&workflow.ID,
		&workflow.Name,
		&workflow.Description,
		&workflow.OrgID,
		&channelID,
		&status,
		&nodes,
		&edges,
		&workflow.CreatedAt,
		&workflow.UpdatedAt,
		&workflow.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	workflow.Status = models.WorkflowStatus(status)

	if channelID.Valid {
		workflow.ChannelID = channelID.String
	}

	err = json.Unmarshal(nodes, &workflow.Nodes)
	if err != nil {
		return nil, fmt.Errorf("%w: nodes: %w", persistence.ErrInvalidWorkflow, err)
	}

	err = json.Unmarshal(edges, &workflow.Edges)
	if err != nil {
		return nil, fmt.Errorf("%w: edges: %w", persistence.ErrInvalidWorkflow, err)
	}

	return &workflow, nil
}
