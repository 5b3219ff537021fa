package web

import (
	"errors"

	"github.com/engagekit/engage/pkg/graph"
	"github.com/engagekit/engage/pkg/lifecycle"
	"github.com/engagekit/engage/pkg/persistence"
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType("not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func conflict(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(409).
		WithInstance(c.Path()).
		WithType("conflict").
		WithDetail(detail)

	return c.Status(fiber.StatusConflict).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleServiceError maps lifecycle and storage errors onto HTTP problems.
func handleServiceError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, lifecycle.ErrWorkflowNotFound) || persistence.IsWorkflowNotFound(err):
		return notFound(c, "workflow not found")

	case lifecycle.IsValidationError(err):
		return badRequest(c, err.Error())

	case lifecycle.IsActivationRefused(err):
		return conflict(c, err.Error())

	case errors.Is(err, graph.ErrInvalidReference),
		errors.Is(err, graph.ErrSelfLoop),
		errors.Is(err, graph.ErrDuplicateNode):
		return badRequest(c, err.Error())

	default:
		return internalError(c, err)
	}
}
