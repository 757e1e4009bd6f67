package api

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/innerweather/internal/services"
)

func (handler *Handler) CreateEntry(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input, ok := parseEntryRequest(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	entry, created, err := handler.entryService.SubmitReflection(c.UserContext(), userID, input)
	if err != nil {
		return handler.serviceError(c, err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"entry": entry})
}

func (handler *Handler) ListEntries(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	limit := parseQueryInt(c.Query("limit"), services.DefaultEntriesLimit)
	offset := parseQueryInt(c.Query("offset"), 0)
	page, err := handler.entryService.ListEntries(c.UserContext(), userID, limit, offset)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(page)
}

func (handler *Handler) GetTodayEntry(c *fiber.Ctx) error {
	return handler.respondWithEntry(c, services.FormatDay(handler.entryService.Today()))
}

func (handler *Handler) GetEntry(c *fiber.Ctx) error {
	return handler.respondWithEntry(c, c.Params("date"))
}

func (handler *Handler) respondWithEntry(c *fiber.Ctx, date string) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	entry, err := handler.entryService.GetEntryByDate(c.UserContext(), userID, date)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"entry": entry})
}

func parseEntryRequest(c *fiber.Ctx) (services.ReflectionInput, bool) {
	request := entryRequest{}
	if err := c.BodyParser(&request); err != nil {
		return services.ReflectionInput{}, false
	}

	text := request.Text
	if strings.TrimSpace(text) == "" {
		text = request.Reflection
	}
	input := services.ReflectionInput{
		Date:     request.Date,
		Text:     text,
		UserTags: request.UserTags,
	}
	if request.Context != nil {
		input.Context = &services.ContextInput{
			SleepHours:    request.Context.SleepHours,
			ActivityLevel: request.Context.ActivityLevel,
			CyclePhase:    request.Context.CyclePhase,
		}
	}
	return input, true
}

// parseQueryInt mirrors the lenient paging parser clients rely on: missing
// or non-numeric values use fallback.
func parseQueryInt(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}
