package services

import (
	"github.com/terraincognita07/innerweather/internal/analysis"
	"github.com/terraincognita07/innerweather/internal/models"
)

// Optional marks whether a patch field was supplied. A set field with a zero
// Value still overwrites.
type Optional[T any] struct {
	Value T
	Set   bool
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{Value: value, Set: true}
}

// AnalysisPatch is a partial update of the AI-derived fields of an entry.
type AnalysisPatch struct {
	PrimaryWeather       Optional[string]
	SecondaryWeather     Optional[*string]
	Explanation          Optional[string]
	ShelterSuggestions   Optional[[]models.ShelterSuggestion]
	Guardrails           Optional[models.Guardrails]
	ClosingMessage       Optional[string]
	ProductivityInsights Optional[*models.ProductivityInsights]
}

// PatchFromAnalysis keeps stored copy for anything the model left out,
// except productivity insights which always follow the latest reading.
func PatchFromAnalysis(result *analysis.Result) AnalysisPatch {
	patch := AnalysisPatch{}
	if result == nil {
		return patch
	}
	if result.PrimaryWeather != "" {
		patch.PrimaryWeather = Some(result.PrimaryWeather)
	}
	if result.SecondaryWeather != nil {
		secondary := *result.SecondaryWeather
		patch.SecondaryWeather = Some(&secondary)
	}
	if result.Explanation != "" {
		patch.Explanation = Some(result.Explanation)
	}
	if len(result.ShelterSuggestions) > 0 {
		patch.ShelterSuggestions = Some(append([]models.ShelterSuggestion(nil), result.ShelterSuggestions...))
	}
	if result.Guardrails != nil {
		patch.Guardrails = Some(*result.Guardrails)
	}
	if result.ClosingMessage != "" {
		patch.ClosingMessage = Some(result.ClosingMessage)
	}
	patch.ProductivityInsights = Some(result.Productivity)
	return patch
}

func (patch AnalysisPatch) ApplyTo(entry *models.JournalEntry) {
	if patch.PrimaryWeather.Set {
		entry.PrimaryWeather = patch.PrimaryWeather.Value
	}
	if patch.SecondaryWeather.Set {
		entry.SecondaryWeather = patch.SecondaryWeather.Value
	}
	if patch.Explanation.Set {
		entry.Explanation = patch.Explanation.Value
	}
	if patch.ShelterSuggestions.Set {
		entry.ShelterSuggestions = patch.ShelterSuggestions.Value
	}
	if patch.Guardrails.Set {
		entry.Guardrails = patch.Guardrails.Value
	}
	if patch.ClosingMessage.Set {
		entry.ClosingMessage = patch.ClosingMessage.Value
	}
	if patch.ProductivityInsights.Set {
		entry.ProductivityInsights = patch.ProductivityInsights.Value
	}
}

func mergeContextFactors(stored models.ContextualFactors, supplied *ContextInput) models.ContextualFactors {
	if supplied == nil {
		return stored
	}
	merged := stored
	if supplied.SleepHours != nil {
		hours := *supplied.SleepHours
		merged.SleepHours = &hours
	}
	if supplied.ActivityLevel != nil {
		merged.ActivityLevel = *supplied.ActivityLevel
	}
	if supplied.CyclePhase != nil {
		merged.CyclePhase = *supplied.CyclePhase
	}
	return merged
}
