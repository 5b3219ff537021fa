package postgresql

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/engagekit/engage/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_WorkflowsTable(t *testing.T) {
	migration, exists := migrations()[1]
	require.True(t, exists, "Migration version 1 should exist")

	assert.Contains(t, migration, "CREATE TABLE workflows")
	assert.Contains(t, migration, "nodes JSONB NOT NULL DEFAULT '[]'")
	assert.Contains(t, migration, "edges JSONB NOT NULL DEFAULT '[]'")
	assert.Contains(t, migration, "status IN ('draft', 'saved', 'active')")
	assert.Contains(t, migration, "deleted_at TIMESTAMP WITH TIME ZONE")

	for _, index := range []string{
		"idx_workflows_status",
		"idx_workflows_org_id",
		"idx_workflows_channel_id",
		"idx_workflows_deleted_at",
	} {
		assert.Contains(t, migration, index, "Migration should contain index: %s", index)
	}
}

func TestNewPersistence_InvalidURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	persistence, err := NewPersistence(context.Background(), logger, "not-a-valid-url")
	assert.Error(t, err)
	assert.Nil(t, persistence)
}

// Round-trip tests against a real database. Skipped unless a test database
// URL is configured.
func TestPersistence_RoundTrip(t *testing.T) {
	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	store, err := NewPersistence(t.Context(), logger, databaseURL)
	require.NoError(t, err)

	defer func() { _ = store.Close(t.Context()) }()

	workflow := &models.Workflow{
		Name:   "Postgres round trip",
		Status: models.WorkflowStatusSaved,
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
		},
		Edges: []*models.Edge{},
	}

	require.NoError(t, store.SaveWorkflow(t.Context(), workflow))
	require.NotEmpty(t, workflow.ID)

	defer func() { _ = store.DeleteWorkflow(t.Context(), workflow.ID) }()

	loaded, err := store.WorkflowByID(t.Context(), workflow.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Postgres round trip", loaded.Name)
	require.Len(t, loaded.Nodes, 1)
	assert.NotNil(t, loaded.Nodes[0].Trigger())

	require.NoError(t, store.SetWorkflowActive(t.Context(), workflow.ID, true))

	active, err := store.ActiveWorkflows(t.Context())
	require.NoError(t, err)
	assert.NotEmpty(t, active)

	require.NoError(t, store.DeleteWorkflow(t.Context(), workflow.ID))

	loaded, err = store.WorkflowByID(t.Context(), workflow.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded, "soft-deleted workflows are invisible")
}
