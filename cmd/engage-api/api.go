// Package main provides the Engage API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/engagekit/engage/pkg/channels"
	"github.com/engagekit/engage/pkg/eventbus"
	"github.com/engagekit/engage/pkg/lifecycle"
	"github.com/engagekit/engage/pkg/persistence"
	"github.com/engagekit/engage/pkg/registry"
	"github.com/engagekit/engage/pkg/validation"
	"github.com/engagekit/engage/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	channels    channels.Registry
	registry    *registry.Registry
	eventBus    eventbus.EventBus
	validate    *validator.Validate
}

func NewAPI(
	log *slog.Logger,
	store persistence.Persistence,
	channelRegistry channels.Registry,
	reg *registry.Registry,
	eventBus eventbus.EventBus,
) *API {
	return &API{
		logger:      log,
		persistence: store,
		channels:    channelRegistry,
		registry:    reg,
		eventBus:    eventBus,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	service := lifecycle.NewService(
		a.persistence,
		a.channels,
		validation.NewEngine(a.registry),
		a.eventBus,
		a.logger,
	)

	handlers := web.NewAPIHandlers(service, a.registry, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Engage API")
	})

	w := app.Group("/workflows")
	w.Get("/", handlers.GetWorkflows)
	w.Post("/", handlers.CreateWorkflow)
	w.Get("/:id", handlers.GetWorkflow)
	w.Patch("/:id", handlers.UpdateWorkflow)
	w.Delete("/:id", handlers.DeleteWorkflow)
	w.Post("/:id/activate", handlers.ActivateWorkflow)
	w.Post("/:id/deactivate", handlers.DeactivateWorkflow)
	w.Get("/:id/validation", handlers.GetValidation)

	// Node endpoints:
	w.Post("/:id/nodes", handlers.CreateNode)
	w.Patch("/:id/nodes/:nodeId", handlers.UpdateNode)
	w.Delete("/:id/nodes/:nodeId", handlers.DeleteNode)

	// Edge endpoints:
	w.Post("/:id/edges", handlers.CreateEdge)
	w.Delete("/:id/edges/:edgeId", handlers.DeleteEdge)

	app.Get("/templates", handlers.GetTemplates)
	app.Get("/health", a.healthCheck(service))

	return app
}

func (a *API) healthCheck(service *lifecycle.Service) fiber.Handler {
	return func(c fiber.Ctx) error {
		message, healthy := service.HealthCheck(c.Context())
		if !healthy {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":  "unhealthy",
				"message": message,
			})
		}

		return c.JSON(fiber.Map{
			"status":  "healthy",
			"message": message,
		})
	}
}

func (a *API) Start(port int) error {
	return a.App().Listen(":" + strconv.Itoa(port))
}
