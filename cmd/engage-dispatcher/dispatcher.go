package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/engagekit/engage/pkg/cache"
	"github.com/engagekit/engage/pkg/eventbus"
	"github.com/engagekit/engage/pkg/events"
	"github.com/engagekit/engage/pkg/matching"
)

// Dispatcher consumes inbound source events and runs them through the
// matching engine. It also watches workflow lifecycle events to keep the
// active-workflow snapshot cache fresh.
type Dispatcher struct {
	id       string
	engine   *matching.Engine
	cache    *cache.ActiveWorkflows
	eventBus eventbus.EventBus
	logger   *slog.Logger
}

func NewDispatcher(
	id string,
	engine *matching.Engine,
	snapshots *cache.ActiveWorkflows,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		id:       id,
		engine:   engine,
		cache:    snapshots,
		eventBus: eventBus,
		logger:   logger.With("module", "engage-dispatcher", "dispatcher_id", id),
	}
}

func (d *Dispatcher) Start(ctx context.Context) error {
	d.logger.InfoContext(ctx, "Starting dispatcher")

	err := d.registerHandlers()
	if err != nil {
		return err
	}

	err = d.eventBus.Subscribe(ctx)
	if err != nil {
		return err
	}

	d.waitForSignal(ctx)
	d.logger.InfoContext(ctx, "Dispatcher stopped")

	return nil
}

func (d *Dispatcher) registerHandlers() error {
	err := d.eventBus.Handle(events.SourceEventReceivedType, d.engine.HandleSourceEvent)
	if err != nil {
		return err
	}

	for _, eventType := range []events.EventType{
		events.WorkflowActivatedType,
		events.WorkflowDeactivatedType,
		events.WorkflowDeletedType,
	} {
		err = d.eventBus.Handle(eventType, d.handleLifecycleEvent)
		if err != nil {
			return err
		}
	}

	return nil
}

// handleLifecycleEvent drops the cached snapshot for the channel a workflow
// was bound to, so the next inbound event sees the change.
func (d *Dispatcher) handleLifecycleEvent(ctx context.Context, event any) error {
	var channelID string

	switch e := event.(type) {
	case *events.WorkflowActivated:
		channelID = e.ChannelID
	case *events.WorkflowDeactivated:
		channelID = e.ChannelID
	case *events.WorkflowDeleted:
		channelID = e.ChannelID
	default:
		return nil
	}

	err := d.cache.Invalidate(ctx, channelID)
	if err != nil {
		d.logger.ErrorContext(ctx, "Failed to invalidate snapshot cache",
			"channel_id", channelID, "error", err)
	}

	return nil
}

func (d *Dispatcher) waitForSignal(ctx context.Context) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-signals:
		d.logger.InfoContext(ctx, "Received signal, shutting down", "signal", sig.String())
	case <-ctx.Done():
	}
}
