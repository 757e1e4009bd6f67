package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/terraincognita07/innerweather/internal/models"
	"go.uber.org/zap"
)

const MaxInterpretLength = 5000

var (
	ErrNotConfigured  = errors.New("ai analysis is not configured")
	ErrTextTooShort   = errors.New("input too short")
	ErrTextTooLong    = errors.New("input too long")
	ErrUnrelatedInput = errors.New("input appears unrelated to productivity, mood, energy, or routine")
)

var interpretKeywords = []string{
	"productivity", "mood", "energy", "routine", "feel", "tired", "happy", "sad", "anxious",
	"work", "focus", "sleep", "dream", "stress", "calm", "excited", "bored", "weather",
	"inner", "reflection", "journal", "thought", "mind", "schedule", "plan", "goal",
	"overwhelm", "fog", "heavy", "light", "rest", "busy", "exhaust", "motivat", "procrastinat",
}

// ValidateInterpretText applies the local guards that run before any model
// call and returns the trimmed text.
func ValidateInterpretText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	length := utf8.RuneCountInString(trimmed)
	if length < MinAnalyzableLength {
		return "", ErrTextTooShort
	}
	if length > MaxInterpretLength {
		return "", ErrTextTooLong
	}
	if !mentionsInterpretKeyword(trimmed) {
		return "", ErrUnrelatedInput
	}
	return trimmed, nil
}

func mentionsInterpretKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range interpretKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// Interpret returns productivity slots for free text. Unlike Analyze it
// reports every failure because the caller has nothing to fall back to.
func (analyzer *Analyzer) Interpret(ctx context.Context, text string) (*models.ProductivityInsights, error) {
	trimmed, err := ValidateInterpretText(text)
	if err != nil {
		return nil, err
	}
	if !analyzer.Available() {
		return nil, ErrNotConfigured
	}

	raw, err := analyzer.generate(ctx, BuildInterpretPrompt(trimmed))
	if err != nil {
		analyzer.logger.Warn("interpret call failed", zap.Error(err))
		return nil, fmt.Errorf("interpret entry: %w", err)
	}

	decoded := rawProductivity{}
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &decoded); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	if strings.TrimSpace(decoded.Error) != "" {
		return nil, ErrUnrelatedInput
	}

	insights := normalizeProductivity(decoded.Morning, decoded.Midday, decoded.Evening)
	if insights == nil {
		return nil, &ParseError{Raw: raw, Err: errors.New("no productivity slots in response")}
	}
	return insights, nil
}
