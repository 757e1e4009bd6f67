package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var (
	errMissingCredentials = errors.New("missing credentials")
	errInvalidToken       = errors.New("invalid token")
)

type authClaims struct {
	jwt.RegisteredClaims
}

// authenticateRequest resolves the caller from a bearer token, falling back
// to the sealed session cookie.
func (handler *Handler) authenticateRequest(c *fiber.Ctx) (string, error) {
	tokenValue, err := handler.requestToken(c)
	if err != nil {
		return "", err
	}
	claims, err := handler.parseToken(tokenValue)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (handler *Handler) requestToken(c *fiber.Ctx) (string, error) {
	if token := bearerToken(c); token != "" {
		return token, nil
	}

	rawCookie := strings.TrimSpace(c.Cookies(sessionCookieName))
	if rawCookie == "" {
		return "", errMissingCredentials
	}
	plaintext, err := handler.cookieCodec.open(sessionCookiePurpose, rawCookie)
	if err != nil {
		return "", errInvalidToken
	}
	return string(plaintext), nil
}

func bearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func (handler *Handler) parseToken(tokenValue string) (*authClaims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if handler.issuer != "" {
		options = append(options, jwt.WithIssuer(handler.issuer))
	}
	if handler.audience != "" {
		options = append(options, jwt.WithAudience(handler.audience))
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenValue, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return handler.secretKey, nil
	}, options...)
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, errInvalidToken
	}
	return claims, nil
}
