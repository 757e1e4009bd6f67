package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/innerweather/internal/security"
)

const (
	DefaultTokenTTL = 24 * time.Hour
	maxTokenTTL     = 90 * 24 * time.Hour
)

var (
	ErrTokenSubjectRequired = errors.New("user id is required")
	ErrTokenSecretRequired  = errors.New("signing secret is required")
	ErrTokenTTLInvalid      = fmt.Errorf("ttl must be positive and at most %s", maxTokenTTL)
)

// TokenOptions describes a development access token.
type TokenOptions struct {
	UserID   string
	Issuer   string
	Audience string
	TTL      time.Duration
	Now      func() time.Time
}

// MintDevToken signs an HS256 token that the API's auth middleware accepts.
func MintDevToken(secret []byte, options TokenOptions) (string, error) {
	subject := strings.TrimSpace(options.UserID)
	if subject == "" {
		return "", ErrTokenSubjectRequired
	}
	if len(secret) == 0 {
		return "", ErrTokenSecretRequired
	}
	ttl := options.TTL
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	if ttl < 0 || ttl > maxTokenTTL {
		return "", ErrTokenTTLInvalid
	}

	now := time.Now
	if options.Now != nil {
		now = options.Now
	}
	issuedAt := now().UTC()

	tokenID, err := security.NewTokenID()
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}

	claims := jwt.RegisteredClaims{
		ID:        tokenID,
		Subject:   subject,
		Issuer:    strings.TrimSpace(options.Issuer),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		NotBefore: jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
	}
	if audience := strings.TrimSpace(options.Audience); audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// RunTokenCommand mints a token and writes it to out followed by a newline.
func RunTokenCommand(out io.Writer, secret []byte, options TokenOptions) error {
	token, err := MintDevToken(secret, options)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
