package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// NodeType represents the category of a workflow node.
type NodeType string

const (
	NodeTypeTrigger   NodeType = "trigger"
	NodeTypeAction    NodeType = "action"
	NodeTypeCondition NodeType = "condition"
	NodeTypeDelay     NodeType = "delay"
)

// TriggerType identifies the kind of inbound event a trigger listens for.
type TriggerType string

const (
	TriggerDirectMessage TriggerType = "direct_message"
	TriggerPostComment   TriggerType = "post_comment"
)

// ActionType identifies the outbound effect an action node performs.
type ActionType string

const (
	ActionSendMessage  ActionType = "send_message"
	ActionReplyComment ActionType = "reply_comment"
	ActionAIResponse   ActionType = "ai_response"
	ActionWebhook      ActionType = "webhook"
)

// MatchType controls how trigger keywords are compared against event text.
type MatchType string

const (
	MatchContains   MatchType = "contains"
	MatchExact      MatchType = "exact"
	MatchStartsWith MatchType = "starts_with"
)

// ConditionOperator is the comparison applied by a condition node.
type ConditionOperator string

const (
	OperatorEquals      ConditionOperator = "equals"
	OperatorNotEquals   ConditionOperator = "not_equals"
	OperatorContains    ConditionOperator = "contains"
	OperatorNotContains ConditionOperator = "not_contains"
	OperatorGreaterThan ConditionOperator = "greater_than"
	OperatorLessThan    ConditionOperator = "less_than"
	OperatorIsEmpty     ConditionOperator = "is_empty"
	OperatorIsNotEmpty  ConditionOperator = "is_not_empty"
)

// DelayUnit is the time unit of a delay node's duration.
type DelayUnit string

const (
	DelayUnitSeconds DelayUnit = "seconds"
	DelayUnitMinutes DelayUnit = "minutes"
	DelayUnitHours   DelayUnit = "hours"
	DelayUnitDays    DelayUnit = "days"
)

// NodeData is the payload of a workflow node. Exactly one concrete variant
// exists per NodeType so that validation and matching can switch exhaustively.
type NodeData interface {
	Kind() NodeType
	Clone() NodeData
}

// TriggerData configures when a workflow fires.
type TriggerData struct {
	TriggerType   TriggerType `json:"trigger_type"  validate:"required,oneof=direct_message post_comment"`
	Keywords      []string    `json:"keywords"`
	MatchType     MatchType   `json:"match_type"    validate:"required,oneof=contains exact starts_with"`
	CaseSensitive bool        `json:"case_sensitive"`
	ChannelID     string      `json:"channel_id"`
	PostIDs       []string    `json:"post_ids,omitempty"` // post_comment only; empty means any post
}

func (d *TriggerData) Kind() NodeType { return NodeTypeTrigger }

func (d *TriggerData) Clone() NodeData {
	clone := *d
	clone.Keywords = append([]string(nil), d.Keywords...)
	clone.PostIDs = append([]string(nil), d.PostIDs...)

	return &clone
}

// ActionData configures an outbound effect.
type ActionData struct {
	ActionType      ActionType `json:"action_type"  validate:"required,oneof=send_message reply_comment ai_response webhook"`
	ChannelID       string     `json:"channel_id"`
	MessageTemplate string     `json:"message_template,omitempty"`
	AIPrompt        string     `json:"ai_prompt,omitempty"`
	AIModel         string     `json:"ai_model,omitempty"`
	WebhookURL      string     `json:"webhook_url,omitempty"`
	DelaySeconds    int        `json:"delay_seconds" validate:"min=0"`
}

func (d *ActionData) Kind() NodeType { return NodeTypeAction }

func (d *ActionData) Clone() NodeData {
	clone := *d

	return &clone
}

// ConditionData configures a two-way branch over inbound event fields.
type ConditionData struct {
	Field      string            `json:"field"    validate:"required"`
	Operator   ConditionOperator `json:"operator" validate:"required"`
	Value      string            `json:"value,omitempty"` // Required unless operator is an emptiness check
	TrueLabel  string            `json:"true_label"`
	FalseLabel string            `json:"false_label"`
}

func (d *ConditionData) Kind() NodeType { return NodeTypeCondition }

func (d *ConditionData) Clone() NodeData {
	clone := *d

	return &clone
}

// DelayData pauses execution between nodes.
type DelayData struct {
	Duration int       `json:"duration" validate:"required,min=1"`
	Unit     DelayUnit `json:"unit"     validate:"required,oneof=seconds minutes hours days"`
}

func (d *DelayData) Kind() NodeType { return NodeTypeDelay }

func (d *DelayData) Clone() NodeData {
	clone := *d

	return &clone
}

// Wait returns the delay as a time.Duration.
func (d *DelayData) Wait() time.Duration {
	switch d.Unit {
	case DelayUnitSeconds:
		return time.Duration(d.Duration) * time.Second
	case DelayUnitMinutes:
		return time.Duration(d.Duration) * time.Minute
	case DelayUnitHours:
		return time.Duration(d.Duration) * time.Hour
	case DelayUnitDays:
		return time.Duration(d.Duration) * 24 * time.Hour
	default:
		return 0
	}
}

// Node is a typed unit in a workflow graph. Type tags the Data variant.
type Node struct {
	ID    string   `json:"id"    validate:"required"`
	Type  NodeType `json:"type"  validate:"required"`
	Label string   `json:"label" validate:"required,min=1"`
	Data  NodeData `json:"data"`
}

// Trigger returns the trigger payload, or nil for non-trigger nodes.
func (n *Node) Trigger() *TriggerData {
	data, _ := n.Data.(*TriggerData)

	return data
}

// Action returns the action payload, or nil for non-action nodes.
func (n *Node) Action() *ActionData {
	data, _ := n.Data.(*ActionData)

	return data
}

// Condition returns the condition payload, or nil for non-condition nodes.
func (n *Node) Condition() *ConditionData {
	data, _ := n.Data.(*ConditionData)

	return data
}

// Delay returns the delay payload, or nil for non-delay nodes.
func (n *Node) Delay() *DelayData {
	data, _ := n.Data.(*DelayData)

	return data
}

type nodeWire struct {
	ID    string          `json:"id"`
	Type  NodeType        `json:"type"`
	Label string          `json:"label"`
	Data  json.RawMessage `json:"data"`
}

// UnmarshalJSON decodes the payload variant selected by the type tag.
func (n *Node) UnmarshalJSON(raw []byte) error {
	var wire nodeWire

	err := json.Unmarshal(raw, &wire)
	if err != nil {
		return err
	}

	n.ID = wire.ID
	n.Type = wire.Type
	n.Label = wire.Label

	data, err := NewNodeData(wire.Type)
	if err != nil {
		return err
	}

	if len(wire.Data) > 0 {
		err = json.Unmarshal(wire.Data, data)
		if err != nil {
			return err
		}
	}

	n.Data = data

	return nil
}

// NewNodeData returns the zero payload variant for a node type.
func NewNodeData(nodeType NodeType) (NodeData, error) {
	switch nodeType {
	case NodeTypeTrigger:
		return &TriggerData{}, nil
	case NodeTypeAction:
		return &ActionData{}, nil
	case NodeTypeCondition:
		return &ConditionData{}, nil
	case NodeTypeDelay:
		return &DelayData{}, nil
	default:
		return nil, fmt.Errorf("unknown node type %q", nodeType)
	}
}

// Edge branch tags for condition node outputs.
const (
	BranchTrue  = "true"
	BranchFalse = "false"
)

// Edge is a directed connection between two nodes. Branch is set only on
// edges leaving a condition node and selects which boolean outcome the edge
// carries.
type Edge struct {
	ID     string `json:"id"     validate:"required"`
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
	Branch string `json:"branch,omitempty"`
}
