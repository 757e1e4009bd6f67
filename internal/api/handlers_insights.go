package api

import "github.com/gofiber/fiber/v2"

func (handler *Handler) GetHealthInsights(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	insights, err := handler.insightsService.Insights(c.UserContext(), userID)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(insights)
}
