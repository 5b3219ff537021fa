package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/engagekit/engage/pkg/channels"
	"github.com/engagekit/engage/pkg/eventbus"
	"github.com/engagekit/engage/pkg/events"
	"github.com/engagekit/engage/pkg/models"
	"github.com/engagekit/engage/pkg/persistence"
	"github.com/engagekit/engage/pkg/validation"
	"github.com/google/uuid"
)

// Service drives a workflow through draft, saved, active and deleted.
// Activation is the only guarded transition: a workflow turns on only when
// its graph validates and a connected channel is available, while turning
// off is always allowed so a broken automation can be disabled.
type Service struct {
	persistence persistence.Persistence
	channels    channels.Registry
	validator   *validation.Engine
	eventBus    eventbus.EventBus // optional; nil skips event publication
	logger      *slog.Logger
}

// NewService creates a lifecycle service.
func NewService(
	store persistence.Persistence,
	channelRegistry channels.Registry,
	validator *validation.Engine,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
) *Service {
	return &Service{
		persistence: store,
		channels:    channelRegistry,
		validator:   validator,
		eventBus:    eventBus,
		logger:      logger.With("module", "lifecycle"),
	}
}

// HealthCheck checks the health of the persistence layer.
func (s *Service) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := s.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// List returns all workflows.
func (s *Service) List(ctx context.Context) ([]*models.Workflow, error) {
	return s.persistence.Workflows(ctx)
}

// FetchByID retrieves a workflow by its id.
func (s *Service) FetchByID(ctx context.Context, id string) (*models.Workflow, error) {
	workflow, err := s.persistence.WorkflowByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if workflow == nil {
		return nil, ErrWorkflowNotFound
	}

	return workflow, nil
}

// Create persists a draft for the first time: it assigns the id and moves
// the workflow to saved. Creation never validates the graph; drafts may be
// arbitrarily incomplete.
func (s *Service) Create(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	if workflow == nil {
		return nil, ErrWorkflowNil
	}

	if strings.TrimSpace(workflow.Name) == "" {
		return nil, ErrWorkflowNameRequired
	}

	now := time.Now().UTC()
	workflow.ID = uuid.New().String()
	workflow.Status = models.WorkflowStatusSaved
	workflow.CreatedAt = now
	workflow.UpdatedAt = now

	err := s.persistence.SaveWorkflow(ctx, workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}

	return workflow, nil
}

// Update replaces a workflow's content. The current status survives the
// save: an active workflow stays active even when the edit makes its graph
// invalid, and the edit persists without re-validation.
func (s *Service) Update(ctx context.Context, workflowID string, workflow *models.Workflow) (*models.Workflow, error) {
	if workflow == nil {
		return nil, ErrWorkflowNil
	}

	existing, err := s.persistence.WorkflowByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		return nil, ErrWorkflowNotFound
	}

	workflow.ID = workflowID
	workflow.OrgID = existing.OrgID
	workflow.Status = existing.Status
	workflow.CreatedAt = existing.CreatedAt
	workflow.UpdatedAt = time.Now().UTC()

	err = s.persistence.SaveWorkflow(ctx, workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to update workflow: %w", err)
	}

	return workflow, nil
}

// Validate returns the structural problems of a stored workflow.
func (s *Service) Validate(ctx context.Context, workflowID string) ([]validation.ValidationError, error) {
	workflow, err := s.FetchByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	return s.validator.Validate(workflow), nil
}

// Activate opens the activation gate. The guard requires a structurally
// valid graph and an active connected channel; a refused activation leaves
// the workflow untouched, so callers can fix the cause and retry.
func (s *Service) Activate(ctx context.Context, workflowID string) (*models.Workflow, error) {
	workflow, err := s.FetchByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	if workflow.IsActive() {
		return nil, &ServiceError{
			Op:   "Activate",
			Code: "ALREADY_ACTIVE",
			Err:  ErrAlreadyActive,
		}
	}

	validationErrs := s.validator.Validate(workflow)
	if len(validationErrs) > 0 {
		messages := make([]string, 0, len(validationErrs))
		for _, validationErr := range validationErrs {
			messages = append(messages, validationErr.Message)
		}

		return nil, &ServiceError{
			Op:      "Activate",
			Code:    "INVALID_GRAPH",
			Message: strings.Join(messages, "; "),
			Err:     ErrWorkflowInvalid,
		}
	}

	err = s.checkChannels(ctx, workflow)
	if err != nil {
		return nil, err
	}

	err = s.persistence.SetWorkflowActive(ctx, workflowID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to activate workflow: %w", err)
	}

	workflow.Status = models.WorkflowStatusActive

	s.publish(ctx, events.WorkflowActivated{
		BaseEvent: events.NewBase(events.WorkflowActivatedType, workflowID),
		ChannelID: workflow.ChannelID,
	})

	s.logger.InfoContext(ctx, "Activated workflow", "workflow_id", workflowID)

	return workflow, nil
}

// Deactivate turns a workflow off. Always allowed, even when the graph is
// currently invalid. Deactivating an inactive workflow is a no-op: nothing
// is saved and no event is published.
func (s *Service) Deactivate(ctx context.Context, workflowID string) (*models.Workflow, error) {
	workflow, err := s.FetchByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	if !workflow.IsActive() {
		return workflow, nil
	}

	err = s.persistence.SetWorkflowActive(ctx, workflowID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to deactivate workflow: %w", err)
	}

	workflow.Status = models.WorkflowStatusSaved

	s.publish(ctx, events.WorkflowDeactivated{
		BaseEvent: events.NewBase(events.WorkflowDeactivatedType, workflowID),
		ChannelID: workflow.ChannelID,
	})

	s.logger.InfoContext(ctx, "Deactivated workflow", "workflow_id", workflowID)

	return workflow, nil
}

// Delete removes a workflow from any non-deleted state.
func (s *Service) Delete(ctx context.Context, workflowID string) error {
	workflow, err := s.FetchByID(ctx, workflowID)
	if err != nil {
		return err
	}

	err = s.persistence.DeleteWorkflow(ctx, workflowID)
	if err != nil {
		return fmt.Errorf("failed to delete workflow: %w", err)
	}

	s.publish(ctx, events.WorkflowDeleted{
		BaseEvent: events.NewBase(events.WorkflowDeletedType, workflowID),
		ChannelID: workflow.ChannelID,
	})

	return nil
}

// checkChannels requires every channel the workflow references to resolve
// to an active connected channel, and at least one active channel to exist
// when no explicit reference is set.
func (s *Service) checkChannels(ctx context.Context, workflow *models.Workflow) error {
	active, err := s.channels.ListActiveChannels(ctx, workflow.OrgID)
	if err != nil {
		return fmt.Errorf("failed to list channels: %w", err)
	}

	activeByID := make(map[string]channels.Channel, len(active))
	for _, channel := range active {
		activeByID[channel.ID] = channel
	}

	referenced := make([]string, 0, 2)

	if workflow.ChannelID != "" {
		referenced = append(referenced, workflow.ChannelID)
	}

	for _, node := range workflow.TriggerNodes() {
		trigger := node.Trigger()
		if trigger != nil && trigger.ChannelID != "" {
			referenced = append(referenced, trigger.ChannelID)
		}
	}

	if len(referenced) == 0 {
		if len(active) == 0 {
			return &ServiceError{
				Op:   "Activate",
				Code: "NO_ACTIVE_CHANNEL",
				Err:  ErrNoActiveChannel,
			}
		}

		return nil
	}

	for _, channelID := range referenced {
		if _, connected := activeByID[channelID]; !connected {
			return &ServiceError{
				Op:      "Activate",
				Code:    "NO_ACTIVE_CHANNEL",
				Message: fmt.Sprintf("channel %s is not connected or inactive", channelID),
				Err:     ErrNoActiveChannel,
			}
		}
	}

	return nil
}

func (s *Service) publish(ctx context.Context, event eventbus.Event) {
	if s.eventBus == nil {
		return
	}

	err := s.eventBus.Publish(ctx, string(event.GetType()), event)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to publish lifecycle event",
			"event_type", event.GetType(), "error", err)
	}
}
