package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	userID, err := handler.authenticateRequest(c)
	if err != nil {
		if handler.devAuthBypass && errors.Is(err, errMissingCredentials) {
			c.Locals(contextUserIDKey, devBypassUserID)
			return c.Next()
		}
		handler.logger.Debug("request rejected", zap.String("path", c.Path()), zap.Error(err))
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	c.Locals(contextUserIDKey, userID)
	return c.Next()
}
