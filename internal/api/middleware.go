package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	sessionCookieName    = "innerweather_session"
	sessionCookiePurpose = "session"
	contextUserIDKey     = "current_user_id"
	devBypassUserID      = "dev-user"
)

func currentUserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals(contextUserIDKey).(string)
	if !ok || strings.TrimSpace(userID) == "" {
		return "", false
	}
	return userID, true
}
