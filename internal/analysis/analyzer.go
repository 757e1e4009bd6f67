// Package analysis turns a free-text reflection into a weather reading by
// prompting a generative model and validating the JSON it returns.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terraincognita07/innerweather/internal/models"
	"go.uber.org/zap"
)

const MinAnalyzableLength = 10

var ErrUpstreamParse = errors.New("upstream returned unparseable output")

// ParseError wraps a model response that could not be decoded as JSON.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", ErrUpstreamParse, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrUpstreamParse
}

// Generator sends one prompt to a text model and returns its raw reply.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Result is a validated analysis. Optional parts are nil when the model
// omitted them.
type Result struct {
	PrimaryWeather     string
	SecondaryWeather   *string
	Explanation        string
	ShelterSuggestions []models.ShelterSuggestion
	Guardrails         *models.Guardrails
	ClosingMessage     string
	Productivity       *models.ProductivityInsights
}

type rawAnalysis struct {
	Error              string                     `json:"error"`
	PrimaryWeather     string                     `json:"primaryWeather"`
	SecondaryWeather   *string                    `json:"secondaryWeather"`
	Explanation        string                     `json:"explanation"`
	ShelterSuggestions []models.ShelterSuggestion `json:"shelterSuggestions"`
	Guardrails         *models.Guardrails         `json:"guardrails"`
	ClosingMessage     string                     `json:"closingMessage"`
	Productivity       *rawProductivity           `json:"productivity"`
}

type rawProductivity struct {
	Error   string                   `json:"error"`
	Morning *models.ProductivitySlot `json:"morning"`
	Midday  *models.ProductivitySlot `json:"midday"`
	Evening *models.ProductivitySlot `json:"evening"`
}

type Analyzer struct {
	generator Generator
	timeout   time.Duration
	logger    *zap.Logger
}

// NewAnalyzer returns an analyzer. A nil generator means no model credential
// is configured and every call is skipped.
func NewAnalyzer(generator Generator, timeout time.Duration, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		generator: generator,
		timeout:   timeout,
		logger:    logger.Named("analysis"),
	}
}

func (analyzer *Analyzer) Available() bool {
	return analyzer != nil && analyzer.generator != nil
}

// Analyze returns (nil, nil) whenever analysis is skipped or the model call
// fails. A *ParseError is returned for replies that are not JSON; callers
// treat it the same way as a skip.
func (analyzer *Analyzer) Analyze(ctx context.Context, text string) (*Result, error) {
	if !analyzer.Available() {
		return nil, nil
	}
	reflection := strings.TrimSpace(text)
	if utf8.RuneCountInString(reflection) < MinAnalyzableLength {
		analyzer.logger.Debug("skipping analysis: reflection too short")
		return nil, nil
	}

	raw, err := analyzer.generate(ctx, BuildAnalysisPrompt(reflection))
	if err != nil {
		analyzer.logger.Warn("analysis call failed", zap.Error(err))
		return nil, nil
	}

	result, err := ParseAnalysis(raw)
	if err != nil {
		analyzer.logger.Warn("analysis response rejected", zap.Error(err), zap.String("raw", truncate(raw, 300)))
		return nil, err
	}
	if result == nil {
		analyzer.logger.Info("analysis declined by model")
	}
	return result, nil
}

func (analyzer *Analyzer) generate(ctx context.Context, prompt string) (string, error) {
	if analyzer.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, analyzer.timeout)
		defer cancel()
	}
	return analyzer.generator.Generate(ctx, prompt)
}

var codeFencePattern = regexp.MustCompile("```(?:json|JSON)?")

func stripCodeFences(raw string) string {
	return strings.TrimSpace(codeFencePattern.ReplaceAllString(raw, ""))
}

// ParseAnalysis decodes and validates a model reply. It returns (nil, nil)
// for empty replies, replies carrying an "error" field, and replies without a
// usable primary weather category.
func ParseAnalysis(raw string) (*Result, error) {
	cleaned := stripCodeFences(raw)
	if cleaned == "" {
		return nil, nil
	}

	decoded := rawAnalysis{}
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	if strings.TrimSpace(decoded.Error) != "" {
		return nil, nil
	}

	primary := normalizeWeather(decoded.PrimaryWeather)
	if primary == "" {
		return nil, nil
	}

	result := &Result{
		PrimaryWeather:     primary,
		Explanation:        strings.TrimSpace(decoded.Explanation),
		ShelterSuggestions: normalizeSuggestions(decoded.ShelterSuggestions),
		Guardrails:         normalizeGuardrails(decoded.Guardrails),
		ClosingMessage:     strings.TrimSpace(decoded.ClosingMessage),
	}
	if decoded.SecondaryWeather != nil {
		if secondary := normalizeWeather(*decoded.SecondaryWeather); secondary != "" && secondary != primary {
			result.SecondaryWeather = &secondary
		}
	}
	if decoded.Productivity != nil {
		result.Productivity = normalizeProductivity(decoded.Productivity.Morning, decoded.Productivity.Midday, decoded.Productivity.Evening)
	}
	return result, nil
}

func normalizeWeather(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.ReplaceAll(normalized, " ", "-")
	if !models.IsValidWeather(normalized) {
		return ""
	}
	return normalized
}

func normalizeSuggestions(values []models.ShelterSuggestion) []models.ShelterSuggestion {
	if len(values) == 0 {
		return nil
	}
	suggestions := make([]models.ShelterSuggestion, 0, len(values))
	for _, value := range values {
		text := strings.TrimSpace(value.Text)
		if text == "" {
			continue
		}
		suggestions = append(suggestions, models.ShelterSuggestion{Text: text, Icon: strings.TrimSpace(value.Icon)})
	}
	if len(suggestions) == 0 {
		return nil
	}
	return suggestions
}

func normalizeGuardrails(value *models.Guardrails) *models.Guardrails {
	if value == nil {
		return nil
	}
	guardrails := &models.Guardrails{
		NotIdeal:     compactStrings(value.NotIdeal),
		BetterSuited: compactStrings(value.BetterSuited),
	}
	if len(guardrails.NotIdeal) == 0 && len(guardrails.BetterSuited) == 0 {
		return nil
	}
	return guardrails
}

func normalizeProductivity(morning, midday, evening *models.ProductivitySlot) *models.ProductivityInsights {
	insights := &models.ProductivityInsights{
		Morning: normalizeSlot(morning),
		Midday:  normalizeSlot(midday),
		Evening: normalizeSlot(evening),
	}
	if insights.Morning == nil && insights.Midday == nil && insights.Evening == nil {
		return nil
	}
	return insights
}

func normalizeSlot(slot *models.ProductivitySlot) *models.ProductivitySlot {
	if slot == nil {
		return nil
	}
	level := strings.ToLower(strings.TrimSpace(slot.ProductivityLevel))
	if !models.IsValidProductivityLevel(level) {
		return nil
	}
	return &models.ProductivitySlot{
		ProductivityLevel: level,
		Insight:           strings.TrimSpace(slot.Insight),
		Suggestion:        strings.TrimSpace(slot.Suggestion),
	}
}

func compactStrings(values []string) []string {
	compacted := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			compacted = append(compacted, trimmed)
		}
	}
	return compacted
}

// truncate keeps at most limit bytes of value without splitting a rune.
func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut]
}
