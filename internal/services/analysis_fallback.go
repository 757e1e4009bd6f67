package services

import "github.com/terraincognita07/innerweather/internal/models"

const (
	fallbackExplanation    = "Your inner weather is being read... Check back soon."
	fallbackClosingMessage = "You showed up today. That matters."
)

// applyFallbackAnalysis fills the AI-derived fields of a new entry with
// static copy. Slices are rebuilt per call so entries never share them.
func applyFallbackAnalysis(entry *models.JournalEntry) {
	entry.PrimaryWeather = models.WeatherFog
	entry.SecondaryWeather = nil
	entry.Explanation = fallbackExplanation
	entry.ShelterSuggestions = []models.ShelterSuggestion{
		{Text: "Take a moment to breathe", Icon: "🌿"},
		{Text: "Be gentle with yourself today", Icon: "💜"},
		{Text: "One thing at a time", Icon: "✨"},
	}
	entry.Guardrails = models.Guardrails{
		NotIdeal:     []string{"Big decisions", "Self-criticism"},
		BetterSuited: []string{"Rest", "Reflection", "Gentle tasks"},
	}
	entry.ClosingMessage = fallbackClosingMessage
	entry.ProductivityInsights = nil
}
