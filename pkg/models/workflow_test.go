package models

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestWorkflow_IsActive(t *testing.T) {
	workflow := &Workflow{ID: "wf-1", Status: WorkflowStatusActive}
	assert.True(t, workflow.IsActive())

	workflow.Status = WorkflowStatusSaved
	assert.False(t, workflow.IsActive())

	now := time.Now()
	workflow.Status = WorkflowStatusActive
	workflow.DeletedAt = &now
	assert.False(t, workflow.IsActive(), "a soft-deleted workflow is never active")
}

func TestWorkflow_NodeByID(t *testing.T) {
	workflow := &Workflow{
		Nodes: []*Node{
			{ID: "n1", Type: NodeTypeTrigger, Label: "t", Data: &TriggerData{}},
			{ID: "n2", Type: NodeTypeAction, Label: "a", Data: &ActionData{}},
		},
	}

	node, found := workflow.NodeByID("n2")
	assert.True(t, found)
	assert.Equal(t, NodeTypeAction, node.Type)

	_, found = workflow.NodeByID("missing")
	assert.False(t, found)
}

func TestWorkflow_TriggerNodesAndOutgoingEdges(t *testing.T) {
	workflow := &Workflow{
		Nodes: []*Node{
			{ID: "t1", Type: NodeTypeTrigger, Label: "t1", Data: &TriggerData{}},
			{ID: "a1", Type: NodeTypeAction, Label: "a1", Data: &ActionData{}},
			{ID: "t2", Type: NodeTypeTrigger, Label: "t2", Data: &TriggerData{}},
		},
		Edges: []*Edge{
			{ID: "e1", Source: "t1", Target: "a1"},
			{ID: "e2", Source: "t2", Target: "a1"},
		},
	}

	triggers := workflow.TriggerNodes()
	assert.Len(t, triggers, 2)
	assert.Equal(t, "t1", triggers[0].ID)

	assert.Len(t, workflow.OutgoingEdges("t1"), 1)
	assert.Empty(t, workflow.OutgoingEdges("a1"))
}

func TestWorkflow_NameValidation(t *testing.T) {
	validate := validator.New()

	err := validate.Struct(&Workflow{Name: "ab"})
	assert.Error(t, err, "names shorter than three characters are rejected")

	err = validate.Struct(&Workflow{Name: "Welcome flow"})
	assert.NoError(t, err)
}

func TestInboundEvent_Field(t *testing.T) {
	event := InboundEvent{
		Kind:      EventPostComment,
		ChannelID: "ch-1",
		Text:      "nice post",
		PostID:    "p1",
		Username:  "dana",
	}

	for name, expected := range map[string]string{
		"text":       "nice post",
		"message":    "nice post",
		"username":   "dana",
		"post_id":    "p1",
		"channel_id": "ch-1",
	} {
		value, known := event.Field(name)
		assert.True(t, known, name)
		assert.Equal(t, expected, value, name)
	}

	_, known := event.Field("sentiment")
	assert.False(t, known)
}
