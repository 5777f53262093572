package api

import (
	"github.com/cyra-app/cyra/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) LogDay(c *fiber.Ctx) error {
	user := currentUser(c)

	var input dayInput
	if err := handler.parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	result, err := handler.tracker.LogDay(c.UserContext(), user.ID, services.DayInput{
		Mood:        input.Mood,
		Symptoms:    input.Symptoms,
		FlowLevel:   input.FlowLevel,
		WaterIntake: input.WaterIntake,
		SelfCare:    input.SelfCare,
		Note:        input.Note,
	})
	if err != nil {
		return trackerError(c, err)
	}

	response := fiber.Map{
		"log":           logView(result.Log),
		"insight":       result.Insight,
		"used_fallback": result.UsedFallback,
	}
	if result.Warning != nil {
		response["warning"] = result.Warning
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

func (handler *Handler) SaveSelfCare(c *fiber.Ctx) error {
	user := currentUser(c)

	var input selfCareInput
	if err := handler.parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	entry, err := handler.tracker.SaveSelfCare(user.ID, input.Activities, input.Note)
	if err != nil {
		return trackerError(c, err)
	}

	return c.JSON(fiber.Map{"log": logView(entry)})
}
