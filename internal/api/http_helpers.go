package api

import (
	"errors"

	"github.com/cyra-app/cyra/internal/services"
	"github.com/gofiber/fiber/v2"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// trackerError maps the service sentinels onto HTTP statuses. State
// machine violations are conflicts, not bad requests: the payload was
// fine, the timing was not.
func trackerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrCycleAlreadyRunning),
		errors.Is(err, services.ErrNoActiveCycle),
		errors.Is(err, services.ErrNoDayLoggedYet):
		return apiError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNothingToLog),
		errors.Is(err, services.ErrNoCycleData):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrCycleNotFound):
		return apiError(c, fiber.StatusNotFound, err.Error())
	default:
		return apiError(c, fiber.StatusInternalServerError, "something went wrong")
	}
}

func (handler *Handler) parseBody(c *fiber.Ctx, payload any) error {
	if err := c.BodyParser(payload); err != nil {
		return err
	}
	return handler.validate.Struct(payload)
}
