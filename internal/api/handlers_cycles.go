package api

import (
	"time"

	"github.com/cyra-app/cyra/internal/models"
	"github.com/cyra-app/cyra/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) StartCycle(c *fiber.Ctx) error {
	user := currentUser(c)

	startDate := services.DateAtLocation(time.Now(), handler.location)
	if len(c.Body()) > 0 {
		var input startCycleInput
		if err := handler.parseBody(c, &input); err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid input")
		}
		if input.StartDate != "" {
			parsed, err := services.ParseDay(input.StartDate, handler.location)
			if err != nil {
				return apiError(c, fiber.StatusBadRequest, "invalid start_date, expected YYYY-MM-DD")
			}
			startDate = parsed
		}
	}

	cycle, err := handler.tracker.StartCycle(user.ID, startDate)
	if err != nil {
		return trackerError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"cycle": cycleView(cycle)})
}

func (handler *Handler) CloseCycle(c *fiber.Ctx) error {
	user := currentUser(c)

	cycle, summary, err := handler.tracker.CloseCycle(user.ID)
	if err != nil {
		return trackerError(c, err)
	}

	return c.JSON(fiber.Map{
		"cycle":        cycleView(cycle),
		"summary_text": summary.SummaryText,
	})
}

func (handler *Handler) GetActiveCycle(c *fiber.Ctx) error {
	user := currentUser(c)

	cycle, logs, running, err := handler.tracker.ActiveCycle(user.ID)
	if err != nil {
		return trackerError(c, err)
	}
	if !running {
		return c.JSON(fiber.Map{"running": false})
	}

	return c.JSON(fiber.Map{
		"running": true,
		"cycle":   cycleView(cycle),
		"logs":    logViews(logs),
	})
}

func (handler *Handler) GetCycleHistory(c *fiber.Ctx) error {
	user := currentUser(c)

	cycles, stats, err := handler.tracker.History(user.ID)
	if err != nil {
		return trackerError(c, err)
	}

	views := make([]fiber.Map, 0, len(cycles))
	for _, cycle := range cycles {
		views = append(views, cycleView(cycle))
	}

	statsView := fiber.Map{
		"completed_cycles":     stats.CompletedCycles,
		"average_cycle_length": stats.AverageCycleLength,
		"average_health_score": stats.AverageHealthScore,
		"next_predicted_date":  formatOptionalDay(stats.NextPredictedDate),
	}

	return c.JSON(fiber.Map{"cycles": views, "stats": statsView})
}

func (handler *Handler) GetCycleLogs(c *fiber.Ctx) error {
	user := currentUser(c)

	cycle, logs, err := handler.tracker.CycleLogs(user.ID, c.Params("id"))
	if err != nil {
		return trackerError(c, err)
	}

	return c.JSON(fiber.Map{
		"cycle": cycleView(cycle),
		"logs":  logViews(logs),
	})
}

func cycleView(cycle models.Cycle) fiber.Map {
	return fiber.Map{
		"id":                  cycle.PublicID,
		"start_date":          services.FormatDay(cycle.StartDate),
		"end_date":            formatOptionalDay(cycle.EndDate),
		"cycle_length":        cycle.CycleLength,
		"health_score":        cycle.CycleHealthScore,
		"next_predicted_date": formatOptionalDay(cycle.NextPredictedDate),
		"top_mood":            cycle.TopMood,
		"top_symptom":         cycle.TopSymptom,
		"top_flow":            cycle.TopFlow,
		"flow_summary":        cycle.FlowSummary,
		"summary_text":        cycle.SummaryText,
		"red_flags":           emptyIfNil(cycle.RedFlags),
		"closed":              cycle.IsClosed(),
	}
}

func logViews(logs []models.DailyLog) []fiber.Map {
	views := make([]fiber.Map, 0, len(logs))
	for _, entry := range logs {
		views = append(views, logView(entry))
	}
	return views
}

func logView(entry models.DailyLog) fiber.Map {
	return fiber.Map{
		"date":         services.FormatDay(entry.Date),
		"mood":         entry.Mood,
		"symptoms":     emptyIfNil(entry.Symptoms),
		"flow_level":   entry.FlowLevel,
		"water_intake": entry.WaterIntake,
		"self_care":    emptyIfNil(entry.SelfCare),
		"note":         entry.Note,
		"insight":      entry.Insight,
		"warnings":     emptyIfNil(entry.Warnings),
	}
}

func formatOptionalDay(day *time.Time) any {
	if day == nil {
		return nil
	}
	return services.FormatDay(*day)
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
