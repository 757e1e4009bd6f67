package services

import (
	"context"
	"strings"
	"time"

	"github.com/terraincognita07/innerweather/internal/logging"
	"github.com/terraincognita07/innerweather/internal/models"
	"go.uber.org/zap"
)

// PreferencesUpdate is a partial update. A non-nil LastPeriodStart pointing
// at an empty string clears the stored date.
type PreferencesUpdate struct {
	CycleTrackingEnabled *bool
	HealthDataEnabled    *bool
	LastPeriodStart      *string
	CycleLength          *int
}

type PreferencesService struct {
	preferences PreferencesRepository
	location    *time.Location
	now         func() time.Time
	logger      *zap.Logger
}

func NewPreferencesService(preferences PreferencesRepository, location *time.Location, logger *zap.Logger) *PreferencesService {
	if location == nil {
		location = time.UTC
	}
	return &PreferencesService{
		preferences: preferences,
		location:    location,
		now:         time.Now,
		logger:      logging.OrNop(logger).Named("preferences"),
	}
}

func (service *PreferencesService) Load(ctx context.Context, userID string) (models.UserPreferences, error) {
	if strings.TrimSpace(userID) == "" {
		return models.UserPreferences{}, ErrUnauthorized
	}
	prefs, found, err := service.preferences.FindByUserID(ctx, userID)
	if err != nil {
		return models.UserPreferences{}, storageError("load preferences", err)
	}
	if !found {
		return models.DefaultUserPreferences(userID), nil
	}
	prefs.CycleLength = normalizeCycleLength(prefs.CycleLength)
	return prefs, nil
}

func (service *PreferencesService) Save(ctx context.Context, userID string, update PreferencesUpdate) (models.UserPreferences, error) {
	prefs, err := service.Load(ctx, userID)
	if err != nil {
		return models.UserPreferences{}, err
	}

	if update.CycleTrackingEnabled != nil {
		prefs.CycleTrackingEnabled = *update.CycleTrackingEnabled
	}
	if update.HealthDataEnabled != nil {
		prefs.HealthDataEnabled = *update.HealthDataEnabled
	}
	if update.CycleLength != nil {
		prefs.CycleLength = models.ClampCycleLength(*update.CycleLength)
	}
	if update.LastPeriodStart != nil {
		start, err := service.resolveLastPeriodStart(*update.LastPeriodStart)
		if err != nil {
			return models.UserPreferences{}, err
		}
		prefs.LastPeriodStart = start
	}

	if err := service.preferences.Upsert(ctx, &prefs); err != nil {
		return models.UserPreferences{}, storageError("save preferences", err)
	}
	service.logger.Info("preferences saved",
		zap.String("user_id", userID),
		zap.Bool("cycle_tracking_enabled", prefs.CycleTrackingEnabled),
		zap.Bool("health_data_enabled", prefs.HealthDataEnabled),
	)
	return prefs, nil
}

func (service *PreferencesService) resolveLastPeriodStart(raw string) (*string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	day, err := ParseDay(trimmed, service.location)
	if err != nil {
		return nil, invalidField("lastPeriodStart", "lastPeriodStart must be a valid YYYY-MM-DD calendar date")
	}
	if day.After(DateAtLocation(service.now(), service.location)) {
		return nil, invalidField("lastPeriodStart", "lastPeriodStart cannot be in the future")
	}
	formatted := FormatDay(day)
	return &formatted, nil
}
