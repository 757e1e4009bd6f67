package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/innerweather/internal/analysis"
	"go.uber.org/zap"
)

func (handler *Handler) Interpret(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	request := interpretRequest{}
	if err := c.BodyParser(&request); err != nil || strings.TrimSpace(request.EntryText) == "" {
		return apiError(c, fiber.StatusBadRequest, "entryText is required and must be a string")
	}
	if !handler.interpretLimiter.allow(userID, handler.now(), handler.interpretLimit, handler.interpretWindow) {
		return apiError(c, fiber.StatusTooManyRequests, "too many interpret requests, slow down")
	}

	output, err := handler.analyzer.Interpret(c.UserContext(), request.EntryText)
	if err != nil {
		return handler.interpretError(c, err)
	}
	return c.JSON(fiber.Map{"output": output})
}

func (handler *Handler) interpretError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, analysis.ErrTextTooShort):
		return apiError(c, fiber.StatusBadRequest, "Input too short. Please provide at least 10 characters.")
	case errors.Is(err, analysis.ErrTextTooLong):
		return apiError(c, fiber.StatusBadRequest, "Input too long. Maximum 5000 characters.")
	case errors.Is(err, analysis.ErrUnrelatedInput):
		return apiError(c, fiber.StatusBadRequest, "Input appears unrelated to productivity, mood, energy, or routine.")
	case errors.Is(err, analysis.ErrNotConfigured):
		return apiError(c, fiber.StatusServiceUnavailable, "AI analysis is not configured")
	case errors.Is(err, analysis.ErrUpstreamParse):
		handler.logger.Warn("interpret returned invalid json", zap.Error(err))
		return apiError(c, fiber.StatusBadGateway, "model returned invalid JSON")
	default:
		handler.logger.Error("interpret failed", zap.Error(err))
		return apiError(c, fiber.StatusBadGateway, "failed to interpret entry")
	}
}
