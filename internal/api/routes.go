package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/timeout"
)

// RegisterRoutes mounts every route. writeTimeout bounds handlers that call
// the model; zero disables the bound.
func RegisterRoutes(app *fiber.App, handler *Handler, writeTimeout time.Duration) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/session", handler.CreateSession)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Get("/me", handler.AuthRequired, handler.Me)

	entries := api.Group("/entries", handler.AuthRequired)
	entries.Get("", handler.ListEntries)
	entries.Post("", withTimeout(handler.CreateEntry, writeTimeout))
	entries.Get("/today", handler.GetTodayEntry)
	entries.Get("/:date", handler.GetEntry)

	preferences := api.Group("/preferences", handler.AuthRequired)
	preferences.Get("", handler.GetPreferences)
	preferences.Put("", handler.UpdatePreferences)

	insights := api.Group("/insights", handler.AuthRequired)
	insights.Get("/health", handler.GetHealthInsights)

	ai := api.Group("/ai", handler.AuthRequired)
	ai.Post("/interpret", withTimeout(handler.Interpret, writeTimeout))

	app.Use(handler.NotFound)
}

func withTimeout(next fiber.Handler, limit time.Duration) fiber.Handler {
	if limit <= 0 {
		return next
	}
	return timeout.New(next, limit)
}
