package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_UnmarshalJSON_TriggerPayload(t *testing.T) {
	raw := `{
		"id": "n1",
		"type": "trigger",
		"label": "New DM",
		"data": {
			"trigger_type": "direct_message",
			"keywords": ["price", "cost"],
			"match_type": "contains",
			"case_sensitive": false
		}
	}`

	var node Node

	err := json.Unmarshal([]byte(raw), &node)
	require.NoError(t, err)

	assert.Equal(t, "n1", node.ID)
	assert.Equal(t, NodeTypeTrigger, node.Type)

	trigger := node.Trigger()
	require.NotNil(t, trigger)
	assert.Equal(t, TriggerDirectMessage, trigger.TriggerType)
	assert.Equal(t, []string{"price", "cost"}, trigger.Keywords)
	assert.Equal(t, MatchContains, trigger.MatchType)
	assert.Nil(t, node.Action(), "trigger node must not expose an action payload")
}

func TestNode_UnmarshalJSON_ActionPayload(t *testing.T) {
	raw := `{
		"id": "n2",
		"type": "action",
		"label": "Send price list",
		"data": {
			"action_type": "send_message",
			"message_template": "Hi {{username}}, here is our price list",
			"delay_seconds": 5
		}
	}`

	var node Node

	err := json.Unmarshal([]byte(raw), &node)
	require.NoError(t, err)

	action := node.Action()
	require.NotNil(t, action)
	assert.Equal(t, ActionSendMessage, action.ActionType)
	assert.Equal(t, 5, action.DelaySeconds)
}

func TestNode_UnmarshalJSON_ConditionAndDelay(t *testing.T) {
	rawCondition := `{
		"id": "n3",
		"type": "condition",
		"label": "VIP check",
		"data": {"field": "username", "operator": "equals", "value": "vip_user"}
	}`

	var condition Node

	require.NoError(t, json.Unmarshal([]byte(rawCondition), &condition))
	require.NotNil(t, condition.Condition())
	assert.Equal(t, OperatorEquals, condition.Condition().Operator)

	rawDelay := `{
		"id": "n4",
		"type": "delay",
		"label": "Cool off",
		"data": {"duration": 2, "unit": "minutes"}
	}`

	var delay Node

	require.NoError(t, json.Unmarshal([]byte(rawDelay), &delay))
	require.NotNil(t, delay.Delay())
	assert.Equal(t, 2*time.Minute, delay.Delay().Wait())
}

func TestNode_UnmarshalJSON_UnknownType(t *testing.T) {
	raw := `{"id": "n5", "type": "loop", "label": "Repeat", "data": {}}`

	var node Node

	err := json.Unmarshal([]byte(raw), &node)
	assert.Error(t, err)
}

func TestNode_JSONRoundTrip(t *testing.T) {
	original := &Node{
		ID:    "n6",
		Type:  NodeTypeTrigger,
		Label: "Comment watcher",
		Data: &TriggerData{
			TriggerType: TriggerPostComment,
			Keywords:    []string{"giveaway"},
			MatchType:   MatchExact,
			PostIDs:     []string{"p1", "p2"},
		},
	}

	raw, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Node

	require.NoError(t, json.Unmarshal(raw, &decoded))

	trigger := decoded.Trigger()
	require.NotNil(t, trigger)
	assert.Equal(t, original.Trigger().PostIDs, trigger.PostIDs)
	assert.Equal(t, MatchExact, trigger.MatchType)
}

func TestDelayData_Wait(t *testing.T) {
	testCases := []struct {
		unit     DelayUnit
		duration int
		expected time.Duration
	}{
		{DelayUnitSeconds, 30, 30 * time.Second},
		{DelayUnitMinutes, 5, 5 * time.Minute},
		{DelayUnitHours, 2, 2 * time.Hour},
		{DelayUnitDays, 1, 24 * time.Hour},
		{DelayUnit("fortnights"), 1, 0},
	}

	for _, tc := range testCases {
		t.Run(string(tc.unit), func(t *testing.T) {
			data := &DelayData{Duration: tc.duration, Unit: tc.unit}
			assert.Equal(t, tc.expected, data.Wait())
		})
	}
}

func TestTriggerData_CloneIsDeep(t *testing.T) {
	original := &TriggerData{
		TriggerType: TriggerPostComment,
		Keywords:    []string{"promo"},
		MatchType:   MatchContains,
		PostIDs:     []string{"p1"},
	}

	clone, ok := original.Clone().(*TriggerData)
	require.True(t, ok)

	clone.Keywords[0] = "changed"
	clone.PostIDs[0] = "p9"

	assert.Equal(t, "promo", original.Keywords[0])
	assert.Equal(t, "p1", original.PostIDs[0])
}

func TestNewNodeData_CoversEveryType(t *testing.T) {
	for _, nodeType := range []NodeType{NodeTypeTrigger, NodeTypeAction, NodeTypeCondition, NodeTypeDelay} {
		data, err := NewNodeData(nodeType)
		require.NoError(t, err)
		assert.Equal(t, nodeType, data.Kind())
	}

	_, err := NewNodeData("unknown")
	assert.Error(t, err)
}
