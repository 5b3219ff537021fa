package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/engagekit/engage/pkg/cache"
	"github.com/engagekit/engage/pkg/cmd"
	"github.com/engagekit/engage/pkg/log"
	"github.com/engagekit/engage/pkg/matching"
	"github.com/engagekit/engage/pkg/otelhelper"
	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"
)

const defaultSnapshotTTL = 30 * time.Second

func main() {
	command := &cli.Command{
		Name:                  "engage-dispatcher",
		Usage:                 "Match inbound channel events against active workflows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dispatcher-id",
				Aliases: []string{"id"},
				Usage:   "Custom dispatcher ID (auto-generated if not provided)",
				Value:   "",
				Sources: cli.EnvVars("DISPATCHER_ID"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (kafka, gochannel)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for the active-workflow snapshot cache",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.DurationFlag{
				Name:    "snapshot-ttl",
				Usage:   "How long cached active-workflow snapshots stay fresh",
				Value:   defaultSnapshotTTL,
				Sources: cli.EnvVars("SNAPSHOT_TTL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			dispatcherID := command.String("dispatcher-id")
			if dispatcherID == "" {
				dispatcherID = fmt.Sprintf("dispatcher-%s", uuid.New().String()[:8])
			}

			logger := log.WithModule("engage-dispatcher").With("dispatcher_id", dispatcherID)

			logger.InfoContext(ctx, "Initializing Engage Dispatcher")

			tracer, err := otelhelper.NewTracer(ctx, "engage-dispatcher")
			if err != nil {
				logger.WarnContext(ctx, "Tracing disabled", "error", err)
			}

			persistence := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			defer func() {
				err := persistence.Close(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(command.String("event-bus"), "engage-dispatcher", logger)
			defer func() {
				err := eventBus.Close()
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			snapshots := cache.NewActiveWorkflows(
				cmd.NewRedisClient(command.String("redis-url"), logger),
				persistence,
				command.Duration("snapshot-ttl"),
				logger,
			)

			client := cmd.NewChannelClient(logger)
			executors := cmd.NewExecutorRegistry(client, logger)

			engine := matching.NewEngine(snapshots, executors, eventBus, tracer, logger)

			return NewDispatcher(dispatcherID, engine, snapshots, eventBus, logger).Start(ctx)
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
