// Package config resolves process settings from an optional YAML file, an
// optional .env file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	minSecretKeyLength     = 32
	insecureSecretKeyValue = "change_me_in_production"
)

var (
	ErrSecretKeyMissing  = errors.New("AUTH_SECRET is required")
	ErrSecretKeyInsecure = errors.New("AUTH_SECRET uses the insecure placeholder")
	ErrSecretKeyTooShort = fmt.Errorf("AUTH_SECRET must be at least %d characters", minSecretKeyLength)
	ErrTimeoutOrder      = errors.New("GEMINI_TIMEOUT must be shorter than REQUEST_TIMEOUT")
)

type Config struct {
	Port           string        `yaml:"port"`
	DBPath         string        `yaml:"db_path"`
	Timezone       string        `yaml:"timezone"`
	AuthSecret     string        `yaml:"auth_secret"`
	AuthIssuer     string        `yaml:"auth_issuer"`
	AuthAudience   string        `yaml:"auth_audience"`
	CookieSecure   bool          `yaml:"cookie_secure"`
	DevAuthBypass  bool          `yaml:"dev_auth_bypass"`
	GeminiAPIKey   string        `yaml:"gemini_api_key"`
	GeminiModel    string        `yaml:"gemini_model"`
	GeminiTimeout  time.Duration `yaml:"gemini_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
}

func Defaults() Config {
	return Config{
		Port:           "8080",
		DBPath:         filepath.Join("data", "innerweather.db"),
		Timezone:       "UTC",
		GeminiModel:    "gemini-2.5-flash",
		GeminiTimeout:  20 * time.Second,
		RequestTimeout: 30 * time.Second,
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

// Load reads CONFIG_FILE (when set) and .env (when present), then applies
// environment overrides and validates the result.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadYAMLFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadYAMLFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.Timezone = getEnv("TZ", cfg.Timezone)
	cfg.AuthSecret = getEnv("AUTH_SECRET", cfg.AuthSecret)
	cfg.AuthIssuer = getEnv("AUTH_ISSUER", cfg.AuthIssuer)
	cfg.AuthAudience = getEnv("AUTH_AUDIENCE", cfg.AuthAudience)
	cfg.GeminiAPIKey = getEnv("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.GeminiModel = getEnv("GEMINI_MODEL", cfg.GeminiModel)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)

	var err error
	if cfg.CookieSecure, err = getEnvBool("COOKIE_SECURE", cfg.CookieSecure); err != nil {
		return err
	}
	if cfg.DevAuthBypass, err = getEnvBool("DEV_AUTH_BYPASS", cfg.DevAuthBypass); err != nil {
		return err
	}
	if cfg.GeminiTimeout, err = getEnvDuration("GEMINI_TIMEOUT", cfg.GeminiTimeout); err != nil {
		return err
	}
	if cfg.RequestTimeout, err = getEnvDuration("REQUEST_TIMEOUT", cfg.RequestTimeout); err != nil {
		return err
	}
	return nil
}

func (cfg Config) Validate() error {
	secret := strings.TrimSpace(cfg.AuthSecret)
	switch {
	case secret == "":
		return ErrSecretKeyMissing
	case secret == insecureSecretKeyValue:
		return ErrSecretKeyInsecure
	case len(secret) < minSecretKeyLength:
		return ErrSecretKeyTooShort
	}
	if cfg.GeminiTimeout <= 0 {
		return errors.New("GEMINI_TIMEOUT must be positive")
	}
	if cfg.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	// The entry is written after the model call, inside the same request.
	if cfg.GeminiTimeout >= cfg.RequestTimeout {
		return ErrTimeoutOrder
	}
	return nil
}

// Location resolves the configured timezone, falling back to UTC.
func (cfg Config) Location() (*time.Location, error) {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return time.UTC, fmt.Errorf("invalid TZ %q: %w", cfg.Timezone, err)
	}
	return location, nil
}

func getEnv(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}
