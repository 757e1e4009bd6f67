package api

import (
	"errors"
	"time"

	"github.com/terraincognita07/innerweather/internal/analysis"
	"github.com/terraincognita07/innerweather/internal/logging"
	"gorm.io/gorm"
)

// NewHandler builds the HTTP handler set. A nil analyzer disables AI
// analysis; entries then always receive the fallback reading.
func NewHandler(database *gorm.DB, analyzer *analysis.Analyzer, options Options) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if len(options.SecretKey) == 0 {
		return nil, errors.New("secret key is required")
	}

	location := options.Location
	if location == nil {
		location = time.UTC
	}
	codec, err := newSecureCookieCodec(options.SecretKey)
	if err != nil {
		return nil, err
	}

	handler := &Handler{
		db:               database,
		secretKey:        options.SecretKey,
		issuer:           options.Issuer,
		audience:         options.Audience,
		location:         location,
		cookieSecure:     options.CookieSecure,
		devAuthBypass:    options.DevAuthBypass,
		logger:           logging.OrNop(options.Logger).Named("api"),
		now:              time.Now,
		cookieCodec:      codec,
		interpretLimiter: newAttemptLimiter(),
		interpretLimit:   options.InterpretLimit,
		interpretWindow:  options.InterpretWindow,
		analyzer:         analyzer,
	}
	if handler.interpretLimit <= 0 {
		handler.interpretLimit = defaultInterpretLimit
	}
	if handler.interpretWindow <= 0 {
		handler.interpretWindow = defaultInterpretWindow
	}
	return handler.withDependencies(database, options), nil
}
