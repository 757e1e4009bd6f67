package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/innerweather/internal/analysis"
	"github.com/terraincognita07/innerweather/internal/db"
	"gorm.io/gorm"
)

const testSecretKey = "test-secret-key-with-at-least-32-chars"

type generatorStub struct {
	reply string
	err   error
	calls int
}

func (stub *generatorStub) Generate(_ context.Context, _ string) (string, error) {
	stub.calls++
	return stub.reply, stub.err
}

type testAppOptions struct {
	generator     analysis.Generator
	devAuthBypass bool
	issuer        string
	limit         int
}

func newTestApp(t *testing.T, options testAppOptions) (*fiber.App, *Handler, *gorm.DB) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "innerweather-api-test.db")
	database, err := db.OpenSQLite(databasePath, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(database)
	})

	var analyzer *analysis.Analyzer
	if options.generator != nil {
		analyzer = analysis.NewAnalyzer(options.generator, time.Second, nil)
	}

	handler, err := NewHandler(database, analyzer, Options{
		SecretKey:      []byte(testSecretKey),
		Issuer:         options.issuer,
		DevAuthBypass:  options.devAuthBypass,
		Location:       time.UTC,
		InterpretLimit: options.limit,
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	return NewApp(handler, nil, 5*time.Second), handler, database
}

func signTestToken(t *testing.T, subject string, ttl time.Duration, mutate ...func(*jwt.RegisteredClaims)) string {
	t.Helper()

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	for _, apply := range mutate {
		apply(&claims)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecretKey))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func doRequest(t *testing.T, app *fiber.App, method string, path string, token string, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, path, reader)
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func decodeJSON(t *testing.T, body io.Reader, target any) {
	t.Helper()

	bytes, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(bytes, target); err != nil {
		t.Fatalf("decode response body %q: %v", string(bytes), err)
	}
}

func readAPIError(t *testing.T, body io.Reader) map[string]string {
	t.Helper()

	payload := map[string]string{}
	decodeJSON(t, body, &payload)
	return payload
}

func responseCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}
