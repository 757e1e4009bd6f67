package services

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terraincognita07/innerweather/internal/models"
)

const MaxSleepHours = 24

// ContextInput carries the optional context fields of a submission. Nil
// fields were not supplied and leave stored values alone.
type ContextInput struct {
	SleepHours    *float64
	ActivityLevel *string
	CyclePhase    *string
}

func (input *ContextInput) empty() bool {
	return input == nil || (input.SleepHours == nil && input.ActivityLevel == nil && input.CyclePhase == nil)
}

// ReflectionInput is a raw entry submission. An empty Date means today; a
// nil UserTags slice keeps the stored tags.
type ReflectionInput struct {
	Date     string
	Text     string
	Context  *ContextInput
	UserTags []string
}

type validatedReflection struct {
	Date     string
	Text     string
	Context  *ContextInput
	UserTags []string
	// PredictedPhase fills the stored cycle phase only when it is empty.
	PredictedPhase string
}

func validateReflectionInput(input ReflectionInput, today time.Time) (validatedReflection, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return validatedReflection{}, invalidField("text", "text is required")
	}
	if utf8.RuneCountInString(text) > models.MaxReflectionLength {
		return validatedReflection{}, invalidField("text", fmt.Sprintf("text must be at most %d characters", models.MaxReflectionLength))
	}

	date, err := resolveEntryDate(input.Date, today)
	if err != nil {
		return validatedReflection{}, err
	}

	contextInput, err := validateContextInput(input.Context)
	if err != nil {
		return validatedReflection{}, err
	}

	tags, err := validateUserTags(input.UserTags)
	if err != nil {
		return validatedReflection{}, err
	}

	return validatedReflection{
		Date:     date,
		Text:     text,
		Context:  contextInput,
		UserTags: tags,
	}, nil
}

func resolveEntryDate(raw string, today time.Time) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return FormatDay(today), nil
	}
	day, err := ParseDay(raw, today.Location())
	if err != nil {
		return "", invalidField("date", "date must be a valid YYYY-MM-DD calendar date")
	}
	if day.After(DateAtLocation(today, today.Location())) {
		return "", invalidField("date", "date cannot be in the future")
	}
	return FormatDay(day), nil
}

func validateContextInput(input *ContextInput) (*ContextInput, error) {
	if input.empty() {
		return nil, nil
	}

	validated := &ContextInput{}
	if input.SleepHours != nil {
		hours := *input.SleepHours
		if hours < 0 || hours > MaxSleepHours {
			return nil, invalidField("context.sleepHours", "sleepHours must be between 0 and 24")
		}
		validated.SleepHours = &hours
	}
	if input.ActivityLevel != nil {
		level := strings.TrimSpace(*input.ActivityLevel)
		if !models.IsValidActivityLevel(level) {
			return nil, invalidField("context.activityLevel", "activityLevel must be Low, Moderate, or High")
		}
		validated.ActivityLevel = &level
	}
	if input.CyclePhase != nil {
		phase := strings.TrimSpace(*input.CyclePhase)
		if !models.IsValidCyclePhase(phase) {
			return nil, invalidField("context.cyclePhase", "cyclePhase is not a recognised phase")
		}
		validated.CyclePhase = &phase
	}
	return validated, nil
}

func validateUserTags(tags []string) ([]string, error) {
	if tags == nil {
		return nil, nil
	}
	if len(tags) > models.MaxUserTags {
		return nil, invalidField("userTags", fmt.Sprintf("at most %d tags are allowed", models.MaxUserTags))
	}

	validated := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if utf8.RuneCountInString(trimmed) > models.MaxUserTagLength {
			return nil, invalidField("userTags", fmt.Sprintf("tags must be at most %d characters", models.MaxUserTagLength))
		}
		validated = append(validated, trimmed)
	}
	return validated, nil
}
