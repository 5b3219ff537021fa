package cache

import (
	"log/slog"
	"testing"
	"time"

	"github.com/engagekit/engage/pkg/models"
	"github.com/engagekit/engage/pkg/persistence/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeWorkflow(id, triggerChannel string) *models.Workflow {
	return &models.Workflow{
		ID:     id,
		Name:   "Active " + id,
		Status: models.WorkflowStatusActive,
		Nodes: []*models.Node{
			{
				ID:    "t1",
				Type:  models.NodeTypeTrigger,
				Label: "DM trigger",
				Data: &models.TriggerData{
					TriggerType: models.TriggerDirectMessage,
					Keywords:    []string{"hi"},
					MatchType:   models.MatchContains,
					ChannelID:   triggerChannel,
				},
			},
		},
	}
}

func TestSnapshot_WithoutRedisReadsThrough(t *testing.T) {
	store := file.NewPersistence(t.TempDir())
	require.NoError(t, store.SaveWorkflow(t.Context(), activeWorkflow("wf-1", "")))

	saved := activeWorkflow("wf-2", "")
	saved.Status = models.WorkflowStatusSaved
	require.NoError(t, store.SaveWorkflow(t.Context(), saved))

	cache := NewActiveWorkflows(nil, store, time.Minute, slog.Default())

	workflows, err := cache.Snapshot(t.Context(), "ch-1")
	require.NoError(t, err)
	require.Len(t, workflows, 1)
	assert.Equal(t, "wf-1", workflows[0].ID)
}

func TestSnapshot_FiltersByChannel(t *testing.T) {
	store := file.NewPersistence(t.TempDir())
	require.NoError(t, store.SaveWorkflow(t.Context(), activeWorkflow("wf-ch1", "ch-1")))
	require.NoError(t, store.SaveWorkflow(t.Context(), activeWorkflow("wf-ch2", "ch-2")))
	require.NoError(t, store.SaveWorkflow(t.Context(), activeWorkflow("wf-any", "")))

	cache := NewActiveWorkflows(nil, store, time.Minute, slog.Default())

	workflows, err := cache.Snapshot(t.Context(), "ch-1")
	require.NoError(t, err)

	ids := make([]string, 0, len(workflows))
	for _, workflow := range workflows {
		ids = append(ids, workflow.ID)
	}

	assert.ElementsMatch(t, []string{"wf-ch1", "wf-any"}, ids)
}

func TestInvalidate_NilClientIsNoop(t *testing.T) {
	cache := NewActiveWorkflows(nil, file.NewPersistence(t.TempDir()), time.Minute, slog.Default())

	assert.NoError(t, cache.Invalidate(t.Context(), "ch-1"))
}

func TestForChannel(t *testing.T) {
	testCases := []struct {
		name           string
		triggerChannel string
		defaultChannel string
		channelID      string
		expected       bool
	}{
		{
			name:           "trigger bound to the channel",
			triggerChannel: "ch-1",
			channelID:      "ch-1",
			expected:       true,
		},
		{
			name:           "trigger bound elsewhere",
			triggerChannel: "ch-2",
			channelID:      "ch-1",
			expected:       false,
		},
		{
			name:      "no binding listens everywhere",
			channelID: "ch-1",
			expected:  true,
		},
		{
			name:           "workflow default channel matches",
			defaultChannel: "ch-1",
			channelID:      "ch-1",
			expected:       true,
		},
		{
			name:           "workflow default channel differs",
			defaultChannel: "ch-2",
			channelID:      "ch-1",
			expected:       false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			workflow := activeWorkflow("wf", tc.triggerChannel)
			workflow.ChannelID = tc.defaultChannel

			assert.Equal(t, tc.expected, ForChannel(workflow, tc.channelID))
		})
	}
}
