package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)

	cycles := api.Group("/cycles", handler.AuthRequired)
	cycles.Post("", handler.StartCycle)
	cycles.Get("", handler.GetCycleHistory)
	cycles.Get("/active", handler.GetActiveCycle)
	cycles.Post("/active/logs", handler.LogDay)
	cycles.Post("/active/selfcare", handler.SaveSelfCare)
	cycles.Post("/active/close", handler.CloseCycle)
	cycles.Get("/:id/logs", handler.GetCycleLogs)

	export := api.Group("/export", handler.AuthRequired)
	export.Get("/csv", handler.ExportCSV)
	export.Get("/pdf", handler.ExportPDF)
}
