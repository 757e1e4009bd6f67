package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CreateSession exchanges a bearer token from the identity provider for a
// sealed HttpOnly session cookie.
func (handler *Handler) CreateSession(c *fiber.Ctx) error {
	token := bearerToken(c)
	if token == "" {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	claims, err := handler.parseToken(token)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := handler.setSessionCookie(c, token, claims.ExpiresAt.Time); err != nil {
		handler.logger.Error("seal session cookie", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "internal server error")
	}
	handler.logger.Info("session created", zap.String("user_id", claims.Subject))
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearSessionCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(fiber.Map{"userId": userID})
}

func (handler *Handler) setSessionCookie(c *fiber.Ctx, token string, expiresAt time.Time) error {
	sealed, err := handler.cookieCodec.seal(sessionCookiePurpose, []byte(token))
	if err != nil {
		return err
	}
	if expiresAt.IsZero() {
		expiresAt = handler.now().Add(defaultSessionTTL)
	}
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    sealed,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
	})
	return nil
}

func (handler *Handler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}
