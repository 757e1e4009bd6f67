package analysis

import (
	"encoding/json"
	"strings"
)

const analysisPromptHeader = `You read journal entries as emotional weather. Reply with a single JSON object only: no markdown, no code fences, no commentary.

Use exactly these keys:
{
  "primaryWeather": one of "storms", "fog", "low-tide", "gusts", "clear-skies",
  "secondaryWeather": one of the same categories, or null,
  "explanation": two or three gentle sentences on why the weather fits,
  "shelterSuggestions": [{"text": "...", "icon": "single emoji"}] with exactly three items,
  "guardrails": {"notIdeal": [two short items], "betterSuited": [three short items]},
  "closingMessage": one encouraging sentence,
  "productivity": {
    "morning": {"productivityLevel": "low" | "medium" | "high", "insight": "...", "suggestion": "..."},
    "midday": {"productivityLevel": "low" | "medium" | "high", "insight": "...", "suggestion": "..."},
    "evening": {"productivityLevel": "low" | "medium" | "high", "insight": "...", "suggestion": "..."}
  }
}

Categories:
- storms: overwhelm, anxiety, irritability, chaotic energy
- fog: mental fatigue, indecision, confusion, disconnect
- low-tide: withdrawal, numbness, sadness, low energy
- gusts: sensitivity, sudden mood shifts, emotional volatility
- clear-skies: clarity, emotional ease, balance, readiness

When the entry is vague, infer from its tone and prefer "fog".

Entry: `

const interpretPromptHeader = `You analyse journal entries for productivity. Reply with a single JSON object only: no markdown, no emojis, no commentary.

If the entry has nothing to do with productivity, mood, energy or routine, reply {"error": "Unrelated input"}.

Otherwise reply with:
{
  "morning": {"productivityLevel": "low" | "medium" | "high", "insight": "short insight", "suggestion": "one actionable suggestion"},
  "midday": {"productivityLevel": "low" | "medium" | "high", "insight": "short insight", "suggestion": "one actionable suggestion"},
  "evening": {"productivityLevel": "low" | "medium" | "high", "insight": "short insight", "suggestion": "one actionable suggestion"}
}

Entry: `

// BuildAnalysisPrompt embeds the reflection as a JSON string literal so
// quotes and newlines in user text cannot break out of the prompt.
func BuildAnalysisPrompt(reflection string) string {
	return analysisPromptHeader + quoteForPrompt(reflection)
}

func BuildInterpretPrompt(entryText string) string {
	return interpretPromptHeader + quoteForPrompt(entryText)
}

func quoteForPrompt(value string) string {
	encoded, err := json.Marshal(value)
	if err != nil {
		return `"` + strings.ReplaceAll(value, `"`, `\"`) + `"`
	}
	return string(encoded)
}
