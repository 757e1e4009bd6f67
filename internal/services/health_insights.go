package services

import (
	"context"
	"math"
	"strings"

	"github.com/terraincognita07/innerweather/internal/models"
)

const healthInsightsWindow = 14

const (
	FitnessExcellent = "Excellent"
	FitnessGood      = "Good"
	FitnessAverage   = "Average"
	FitnessLow       = "Low"
)

type HealthInsights struct {
	FitnessLevel string `json:"fitnessLevel"`
	Score        int    `json:"score"`
	SampleSize   int    `json:"sampleSize"`
}

type HealthSampleRepository interface {
	ListWithHealthContext(ctx context.Context, userID string, limit int) ([]models.JournalEntry, error)
}

type HealthInsightsService struct {
	entries     HealthSampleRepository
	preferences PreferencesRepository
}

func NewHealthInsightsService(entries HealthSampleRepository, preferences PreferencesRepository) *HealthInsightsService {
	return &HealthInsightsService{entries: entries, preferences: preferences}
}

// Insights scores sleep and activity from the most recent entries that
// carry either. Users must opt in through preferences first.
func (service *HealthInsightsService) Insights(ctx context.Context, userID string) (HealthInsights, error) {
	if strings.TrimSpace(userID) == "" {
		return HealthInsights{}, ErrUnauthorized
	}
	prefs, found, err := service.preferences.FindByUserID(ctx, userID)
	if err != nil {
		return HealthInsights{}, storageError("load preferences", err)
	}
	if !found || !prefs.HealthDataEnabled {
		return HealthInsights{}, ErrHealthDataDisabled
	}

	entries, err := service.entries.ListWithHealthContext(ctx, userID, healthInsightsWindow)
	if err != nil {
		return HealthInsights{}, storageError("list entries", err)
	}
	return ScoreHealth(entries), nil
}

var activityScores = map[string]float64{
	models.ActivityLow:      0.3,
	models.ActivityModerate: 0.6,
	models.ActivityHigh:     0.9,
}

func ScoreHealth(entries []models.JournalEntry) HealthInsights {
	var sleepSum, activitySum float64
	sleepCount, activityCount, sampleSize := 0, 0, 0

	for _, entry := range entries {
		factors := entry.ContextualFactors
		hasContext := false
		if factors.SleepHours != nil {
			sleepSum += math.Max(0, math.Min(10, *factors.SleepHours))
			sleepCount++
			hasContext = true
		}
		if factors.ActivityLevel != "" {
			score, ok := activityScores[factors.ActivityLevel]
			if !ok {
				score = 0.5
			}
			activitySum += score
			activityCount++
			hasContext = true
		}
		if hasContext {
			sampleSize++
		}
	}

	if sampleSize == 0 {
		return HealthInsights{FitnessLevel: FitnessAverage, Score: 50}
	}

	avgSleep := 6.0
	if sleepCount > 0 {
		avgSleep = sleepSum / float64(sleepCount)
	}
	avgActivity := 0.6
	if activityCount > 0 {
		avgActivity = activitySum / float64(activityCount)
	}

	sleepComponent := math.Max(0, math.Min(1, (avgSleep-4)/4))
	score := int(math.Round((sleepComponent*0.6 + avgActivity*0.4) * 100))
	return HealthInsights{FitnessLevel: fitnessLevel(score), Score: score, SampleSize: sampleSize}
}

func fitnessLevel(score int) string {
	switch {
	case score >= 80:
		return FitnessExcellent
	case score >= 60:
		return FitnessGood
	case score >= 40:
		return FitnessAverage
	default:
		return FitnessLow
	}
}
