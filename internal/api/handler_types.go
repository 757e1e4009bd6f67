package api

import (
	"time"

	"github.com/terraincognita07/innerweather/internal/analysis"
	"github.com/terraincognita07/innerweather/internal/db"
	"github.com/terraincognita07/innerweather/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultInterpretLimit  = 10
	defaultInterpretWindow = time.Minute
	defaultSessionTTL      = 7 * 24 * time.Hour
)

// Options carries the HTTP-facing settings of a Handler.
type Options struct {
	SecretKey       []byte
	Issuer          string
	Audience        string
	CookieSecure    bool
	DevAuthBypass   bool
	Location        *time.Location
	Logger          *zap.Logger
	InterpretLimit  int
	InterpretWindow time.Duration
}

type Handler struct {
	db            *gorm.DB
	secretKey     []byte
	issuer        string
	audience      string
	location      *time.Location
	cookieSecure  bool
	devAuthBypass bool
	logger        *zap.Logger
	now           func() time.Time

	cookieCodec      *secureCookieCodec
	interpretLimiter *attemptLimiter
	interpretLimit   int
	interpretWindow  time.Duration

	analyzer           *analysis.Analyzer
	repositories       *db.Repositories
	entryService       *services.EntryService
	preferencesService *services.PreferencesService
	insightsService    *services.HealthInsightsService
}

type entryContextRequest struct {
	SleepHours    *float64 `json:"sleepHours"`
	ActivityLevel *string  `json:"activityLevel"`
	CyclePhase    *string  `json:"cyclePhase"`
}

type entryRequest struct {
	Date       string               `json:"date"`
	Text       string               `json:"text"`
	Reflection string               `json:"reflection"`
	Context    *entryContextRequest `json:"context"`
	UserTags   []string             `json:"userTags"`
}

type interpretRequest struct {
	EntryText string `json:"entryText"`
}
