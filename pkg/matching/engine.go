package matching

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/engagekit/engage/pkg/actions"
	"github.com/engagekit/engage/pkg/eventbus"
	"github.com/engagekit/engage/pkg/events"
	"github.com/engagekit/engage/pkg/models"
	"github.com/engagekit/engage/pkg/otelhelper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const defaultExecutionTimeout = 30 * time.Second

// Snapshotter supplies the active workflows to evaluate for a channel. Each
// event receives one consistent snapshot.
type Snapshotter interface {
	Snapshot(ctx context.Context, channelID string) ([]*models.Workflow, error)
}

// Engine evaluates inbound events against every active workflow. Workflows
// are independent: each one is evaluated in its own goroutine with its own
// execution timeout, and a failing action in one workflow never blocks the
// others.
type Engine struct {
	snapshots        Snapshotter
	executors        *actions.Registry
	eventBus         eventbus.EventBus // optional; nil skips result events
	tracer           trace.Tracer      // optional
	logger           *slog.Logger
	executionTimeout time.Duration
}

// NewEngine creates a matching engine.
func NewEngine(
	snapshots Snapshotter,
	executors *actions.Registry,
	eventBus eventbus.EventBus,
	tracer trace.Tracer,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		snapshots:        snapshots,
		executors:        executors,
		eventBus:         eventBus,
		tracer:           tracer,
		logger:           logger.With("module", "matching_engine"),
		executionTimeout: defaultExecutionTimeout,
	}
}

// SetExecutionTimeout overrides the per-action timeout bound.
func (e *Engine) SetExecutionTimeout(timeout time.Duration) {
	e.executionTimeout = timeout
}

// HandleSourceEvent adapts Evaluate to the event bus handler signature.
func (e *Engine) HandleSourceEvent(ctx context.Context, event any) error {
	received, ok := event.(*events.SourceEventReceived)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	e.Evaluate(ctx, received.Event)

	return nil
}

// Evaluate fans the event out across the active workflows for its channel
// and waits for every evaluation to finish. It never returns an error:
// failures are logged and reported per workflow.
func (e *Engine) Evaluate(ctx context.Context, event models.InboundEvent) {
	ctx, span := e.startSpan(ctx, "engine.evaluate",
		attribute.String(otelhelper.EventIDKey, event.ID),
		attribute.String(otelhelper.EventKindKey, string(event.Kind)),
		attribute.String(otelhelper.ChannelIDKey, event.ChannelID),
	)
	defer span.End()

	workflows, err := e.snapshots.Snapshot(ctx, event.ChannelID)
	if err != nil {
		otelhelper.SetError(span, err)
		e.logger.ErrorContext(ctx, "Failed to snapshot active workflows",
			"channel_id", event.ChannelID, "error", err)

		return
	}

	e.logger.DebugContext(ctx, "Evaluating inbound event",
		"event_id", event.ID,
		"kind", event.Kind,
		"workflows", len(workflows))

	var wg sync.WaitGroup

	for _, workflow := range workflows {
		wg.Add(1)

		go func(workflow *models.Workflow) {
			defer wg.Done()

			e.evaluateWorkflow(ctx, workflow, event)
		}(workflow)
	}

	wg.Wait()
}

func (e *Engine) evaluateWorkflow(ctx context.Context, workflow *models.Workflow, event models.InboundEvent) {
	for _, node := range workflow.TriggerNodes() {
		trigger := node.Trigger()
		if trigger == nil {
			continue
		}

		if trigger.ChannelID != "" && trigger.ChannelID != event.ChannelID {
			continue
		}

		if !Matches(trigger, event) {
			continue
		}

		ctx, span := e.startSpan(ctx, "engine.fire",
			attribute.String(otelhelper.WorkflowIDKey, workflow.ID),
			attribute.String(otelhelper.TriggerTypeKey, string(trigger.TriggerType)),
			attribute.String(otelhelper.EventIDKey, event.ID),
		)

		e.logger.InfoContext(ctx, "Workflow triggered",
			"workflow_id", workflow.ID,
			"trigger_node", node.ID,
			"event_id", event.ID)

		visited := make(map[string]bool, len(workflow.Nodes))
		e.runDownstream(ctx, workflow, node.ID, event, visited)

		span.End()
	}
}

// runDownstream walks the graph from a fired node. Condition nodes follow
// only the edges tagged with their boolean outcome; delay nodes hold the
// walk on a context-aware timer; a failed action cuts its own branch short
// without affecting siblings.
func (e *Engine) runDownstream(ctx context.Context, workflow *models.Workflow, nodeID string, event models.InboundEvent, visited map[string]bool) {
	for _, edge := range workflow.OutgoingEdges(nodeID) {
		e.followEdge(ctx, workflow, edge, event, visited)
	}
}

func (e *Engine) followEdge(ctx context.Context, workflow *models.Workflow, edge *models.Edge, event models.InboundEvent, visited map[string]bool) {
	target, exists := workflow.NodeByID(edge.Target)
	if !exists || visited[target.ID] {
		return
	}

	visited[target.ID] = true

	switch target.Type {
	case models.NodeTypeAction:
		err := e.executeAction(ctx, workflow, target, event)
		if err != nil {
			return
		}

		e.runDownstream(ctx, workflow, target.ID, event, visited)

	case models.NodeTypeCondition:
		branch := branchName(EvaluateCondition(target.Condition(), event))

		for _, out := range workflow.OutgoingEdges(target.ID) {
			// Untagged edges out of a condition are dead ends, not
			// unconditional.
			if out.Branch != branch {
				continue
			}

			e.followEdge(ctx, workflow, out, event, visited)
		}

	case models.NodeTypeDelay:
		delay := target.Delay()
		if delay != nil && !e.wait(ctx, delay.Wait()) {
			return
		}

		e.runDownstream(ctx, workflow, target.ID, event, visited)

	case models.NodeTypeTrigger:
		// Triggers are roots, never downstream targets.
	}
}

func (e *Engine) executeAction(ctx context.Context, workflow *models.Workflow, node *models.Node, event models.InboundEvent) error {
	action := node.Action()
	if action == nil {
		return fmt.Errorf("node %s has no action payload", node.ID)
	}

	if action.DelaySeconds > 0 {
		if !e.wait(ctx, time.Duration(action.DelaySeconds)*time.Second) {
			return ctx.Err()
		}
	}

	execCtx, cancel := context.WithTimeout(ctx, e.executionTimeout)
	defer cancel()

	execCtx, span := e.startSpan(execCtx, "engine.execute_action",
		attribute.String(otelhelper.WorkflowIDKey, workflow.ID),
		attribute.String(otelhelper.ActionIDKey, node.ID),
		attribute.String(otelhelper.ActionTypeKey, string(action.ActionType)),
	)
	defer span.End()

	started := time.Now()

	executor, err := e.executors.ExecutorFor(action.ActionType)
	if err == nil {
		err = executor.Execute(execCtx, action, event, e.logger)
	}

	if err != nil {
		otelhelper.SetError(span, err)
		e.logger.ErrorContext(execCtx, "Action execution failed",
			"workflow_id", workflow.ID,
			"node_id", node.ID,
			"action_type", action.ActionType,
			"error", err)

		e.publish(ctx, events.ActionFailed{
			BaseEvent:  events.NewBase(events.ActionFailedType, workflow.ID),
			NodeID:     node.ID,
			ActionType: string(action.ActionType),
			EventID:    event.ID,
			Error:      err.Error(),
		})

		return err
	}

	e.publish(ctx, events.ActionFinished{
		BaseEvent:  events.NewBase(events.ActionFinishedType, workflow.ID),
		NodeID:     node.ID,
		ActionType: string(action.ActionType),
		EventID:    event.ID,
		Duration:   time.Since(started),
	})

	return nil
}

// wait blocks for the duration or until the context is cancelled. Returns
// false on cancellation.
func (e *Engine) wait(ctx context.Context, duration time.Duration) bool {
	if duration <= 0 {
		return true
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (e *Engine) publish(ctx context.Context, event eventbus.Event) {
	if e.eventBus == nil {
		return
	}

	err := e.eventBus.Publish(ctx, string(event.GetType()), event)
	if err != nil {
		e.logger.WarnContext(ctx, "Failed to publish execution event",
			"event_type", event.GetType(), "error", err)
	}
}

// nolint:spancheck // Span ownership moves to the caller.
func (e *Engine) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if e.tracer == nil {
		return noop.NewTracerProvider().Tracer("").Start(ctx, name)
	}

	return otelhelper.StartSpan(ctx, e.tracer, name, attrs...)
}

func branchName(result bool) string {
	if result {
		return models.BranchTrue
	}

	return models.BranchFalse
}
