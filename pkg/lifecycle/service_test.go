package lifecycle

import (
	"context"
	"log/slog"
	"testing"

	"github.com/engagekit/engage/pkg/channels"
	"github.com/engagekit/engage/pkg/eventbus"
	"github.com/engagekit/engage/pkg/events"
	"github.com/engagekit/engage/pkg/models"
	"github.com/engagekit/engage/pkg/persistence/file"
	"github.com/engagekit/engage/pkg/registry"
	"github.com/engagekit/engage/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingBus captures published lifecycle events.
type recordingBus struct {
	published []eventbus.Event
}

func (b *recordingBus) Publish(_ context.Context, _ string, event eventbus.Event) error {
	b.published = append(b.published, event)

	return nil
}

func (b *recordingBus) Subscribe(context.Context) error { return nil }

func (b *recordingBus) Handle(events.EventType, eventbus.EventHandler) error { return nil }

func (b *recordingBus) GenerateID() string { return "" }

func (b *recordingBus) Close() error { return nil }

func newTestService(t *testing.T, channelRegistry channels.Registry) *Service {
	t.Helper()

	if channelRegistry == nil {
		registry := channels.NewMemoryRegistry()
		registry.Add(channels.Channel{
			ID:       "ch-1",
			Provider: channels.ProviderInstagram,
			Active:   true,
		})
		channelRegistry = registry
	}

	return NewService(
		file.NewPersistence(t.TempDir()),
		channelRegistry,
		validation.NewEngine(registry.NewDefaultRegistry()),
		nil,
		slog.Default(),
	)
}

func validWorkflow(name string) *models.Workflow {
	return &models.Workflow{
		Name: name,
		Nodes: []*models.Node{
			{
				ID:    "t1",
				Type:  models.NodeTypeTrigger,
				Label: "New DM",
				Data: &models.TriggerData{
					TriggerType: models.TriggerDirectMessage,
					Keywords:    []string{"hi"},
					MatchType:   models.MatchContains,
				},
			},
			{
				ID:    "a1",
				Type:  models.NodeTypeAction,
				Label: "Greet",
				Data: &models.ActionData{
					ActionType:      models.ActionSendMessage,
					MessageTemplate: "hello!",
				},
			},
		},
		Edges: []*models.Edge{{ID: "e1", Source: "t1", Target: "a1"}},
	}
}

func TestService_Create(t *testing.T) {
	service := newTestService(t, nil)

	created, err := service.Create(t.Context(), validWorkflow("Welcome flow"))
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.WorkflowStatusSaved, created.Status)
	assert.False(t, created.CreatedAt.IsZero())

	fetched, err := service.FetchByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Welcome flow", fetched.Name)
}

func TestService_Create_RequiresName(t *testing.T) {
	service := newTestService(t, nil)

	_, err := service.Create(t.Context(), &models.Workflow{Name: "   "})
	assert.ErrorIs(t, err, ErrWorkflowNameRequired)
	assert.True(t, IsValidationError(err))
}

func TestService_Create_NeverValidatesGraph(t *testing.T) {
	service := newTestService(t, nil)

	// A bare draft with no nodes must save fine.
	created, err := service.Create(t.Context(), &models.Workflow{Name: "Empty draft"})
	require.NoError(t, err)
	assert.Empty(t, created.Nodes)
}

func TestService_Update_KeepsStatusAndCreatedAt(t *testing.T) {
	service := newTestService(t, nil)

	created, err := service.Create(t.Context(), validWorkflow("Edit me"))
	require.NoError(t, err)

	activated, err := service.Activate(t.Context(), created.ID)
	require.NoError(t, err)
	require.Equal(t, models.WorkflowStatusActive, activated.Status)

	edit := validWorkflow("Edited name")

	updated, err := service.Update(t.Context(), created.ID, edit)
	require.NoError(t, err)

	assert.Equal(t, models.WorkflowStatusActive, updated.Status,
		"editing an active workflow must not deactivate it")
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Edited name", updated.Name)
}

func TestService_Update_KeepsOrgID(t *testing.T) {
	service := newTestService(t, nil)

	workflow := validWorkflow("Org owned")
	workflow.OrgID = "org-1"

	created, err := service.Create(t.Context(), workflow)
	require.NoError(t, err)
	require.Equal(t, "org-1", created.OrgID)

	// Edits arrive without an org field; ownership must survive the save.
	updated, err := service.Update(t.Context(), created.ID, validWorkflow("Org owned v2"))
	require.NoError(t, err)
	assert.Equal(t, "org-1", updated.OrgID)

	fetched, err := service.FetchByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "org-1", fetched.OrgID)
}

func TestService_Update_NotFound(t *testing.T) {
	service := newTestService(t, nil)

	_, err := service.Update(t.Context(), "missing", validWorkflow("x y z"))
	assert.ErrorIs(t, err, ErrWorkflowNotFound)
}

func TestService_Activate_ValidWorkflow(t *testing.T) {
	service := newTestService(t, nil)

	created, err := service.Create(t.Context(), validWorkflow("Activate me"))
	require.NoError(t, err)

	activated, err := service.Activate(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkflowStatusActive, activated.Status)

	fetched, err := service.FetchByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.True(t, fetched.IsActive())
}

func TestService_Activate_InvalidGraphRefused(t *testing.T) {
	service := newTestService(t, nil)

	created, err := service.Create(t.Context(), &models.Workflow{Name: "No action"})
	require.NoError(t, err)

	_, err = service.Activate(t.Context(), created.ID)
	assert.ErrorIs(t, err, ErrWorkflowInvalid)
	assert.True(t, IsActivationRefused(err))

	// The refused activation must leave the workflow untouched.
	fetched, err := service.FetchByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkflowStatusSaved, fetched.Status)
}

func TestService_Activate_NoActiveChannelRefused(t *testing.T) {
	service := newTestService(t, channels.NewMemoryRegistry())

	created, err := service.Create(t.Context(), validWorkflow("No channels"))
	require.NoError(t, err)

	_, err = service.Activate(t.Context(), created.ID)
	assert.ErrorIs(t, err, ErrNoActiveChannel)
}

func TestService_Activate_ReferencedChannelMustBeActive(t *testing.T) {
	channelRegistry := channels.NewMemoryRegistry()
	channelRegistry.Add(channels.Channel{ID: "ch-1", Active: true})

	service := newTestService(t, channelRegistry)

	workflow := validWorkflow("Bound to a dead channel")
	workflow.ChannelID = "ch-disconnected"

	created, err := service.Create(t.Context(), workflow)
	require.NoError(t, err)

	_, err = service.Activate(t.Context(), created.ID)
	assert.ErrorIs(t, err, ErrNoActiveChannel)
}

func TestService_Activate_AlreadyActive(t *testing.T) {
	service := newTestService(t, nil)

	created, err := service.Create(t.Context(), validWorkflow("Twice"))
	require.NoError(t, err)

	_, err = service.Activate(t.Context(), created.ID)
	require.NoError(t, err)

	_, err = service.Activate(t.Context(), created.ID)
	assert.ErrorIs(t, err, ErrAlreadyActive)
}

func TestService_Deactivate_AlwaysAllowed(t *testing.T) {
	service := newTestService(t, nil)

	created, err := service.Create(t.Context(), validWorkflow("On and off"))
	require.NoError(t, err)

	_, err = service.Activate(t.Context(), created.ID)
	require.NoError(t, err)

	// Make the graph invalid while active, then deactivate anyway.
	broken := &models.Workflow{Name: "On and off"}

	_, err = service.Update(t.Context(), created.ID, broken)
	require.NoError(t, err)

	deactivated, err := service.Deactivate(t.Context(), created.ID)
	require.NoError(t, err, "deactivation is never guarded")
	assert.Equal(t, models.WorkflowStatusSaved, deactivated.Status)

	// And activation of the now-invalid workflow is refused.
	_, err = service.Activate(t.Context(), created.ID)
	assert.ErrorIs(t, err, ErrWorkflowInvalid)
}

func TestService_Deactivate_InactiveIsNoOp(t *testing.T) {
	bus := &recordingBus{}

	channelRegistry := channels.NewMemoryRegistry()
	channelRegistry.Add(channels.Channel{
		ID:       "ch-1",
		Provider: channels.ProviderInstagram,
		Active:   true,
	})

	service := NewService(
		file.NewPersistence(t.TempDir()),
		channelRegistry,
		validation.NewEngine(registry.NewDefaultRegistry()),
		bus,
		slog.Default(),
	)

	created, err := service.Create(t.Context(), validWorkflow("Never on"))
	require.NoError(t, err)

	deactivated, err := service.Deactivate(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkflowStatusSaved, deactivated.Status)
	assert.Empty(t, bus.published, "deactivating a saved workflow publishes nothing")

	_, err = service.Activate(t.Context(), created.ID)
	require.NoError(t, err)

	_, err = service.Deactivate(t.Context(), created.ID)
	require.NoError(t, err)
	require.Len(t, bus.published, 2)

	_, err = service.Deactivate(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Len(t, bus.published, 2, "repeat deactivation publishes nothing")
}

func TestService_Delete(t *testing.T) {
	service := newTestService(t, nil)

	created, err := service.Create(t.Context(), validWorkflow("Delete me"))
	require.NoError(t, err)

	require.NoError(t, service.Delete(t.Context(), created.ID))

	_, err = service.FetchByID(t.Context(), created.ID)
	assert.ErrorIs(t, err, ErrWorkflowNotFound)

	err = service.Delete(t.Context(), created.ID)
	assert.ErrorIs(t, err, ErrWorkflowNotFound)
}

func TestService_Validate(t *testing.T) {
	service := newTestService(t, nil)

	created, err := service.Create(t.Context(), &models.Workflow{Name: "Half built"})
	require.NoError(t, err)

	errs, err := service.Validate(t.Context(), created.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, errs)

	complete, err := service.Create(t.Context(), validWorkflow("Complete"))
	require.NoError(t, err)

	errs, err = service.Validate(t.Context(), complete.ID)
	require.NoError(t, err)
	assert.Empty(t, errs)
}
