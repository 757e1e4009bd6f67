package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/innerweather/internal/analysis"
	"github.com/terraincognita07/innerweather/internal/db"
	"github.com/terraincognita07/innerweather/internal/logging"
	"github.com/terraincognita07/innerweather/internal/models"
	"go.uber.org/zap"
)

const (
	DefaultEntriesLimit = 30
	MaxEntriesLimit     = 100

	persistTimeout = 5 * time.Second
)

type EntryRepository interface {
	FindByUserAndDate(ctx context.Context, userID string, date string) (models.JournalEntry, bool, error)
	Create(ctx context.Context, entry *models.JournalEntry) error
	Save(ctx context.Context, entry *models.JournalEntry) error
	ListByUser(ctx context.Context, userID string, limit int, offset int) ([]models.JournalEntry, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

type PreferencesRepository interface {
	FindByUserID(ctx context.Context, userID string) (models.UserPreferences, bool, error)
	Upsert(ctx context.Context, prefs *models.UserPreferences) error
}

type ReflectionAnalyzer interface {
	Analyze(ctx context.Context, text string) (*analysis.Result, error)
}

type EntryPage struct {
	Entries []models.JournalEntry `json:"entries"`
	Total   int64                 `json:"total"`
	Limit   int                   `json:"limit"`
	Offset  int                   `json:"offset"`
}

type analysisOutcome int

const (
	analysisSkipped analysisOutcome = iota
	analysisFailed
	analysisApplied
)

type EntryService struct {
	entries     EntryRepository
	preferences PreferencesRepository
	analyzer    ReflectionAnalyzer
	location    *time.Location
	now         func() time.Time
	logger      *zap.Logger
}

// NewEntryService wires the entry workflow. A nil analyzer disables AI
// analysis and every new entry receives the fallback reading.
func NewEntryService(entries EntryRepository, preferences PreferencesRepository, analyzer ReflectionAnalyzer, location *time.Location, logger *zap.Logger) *EntryService {
	if location == nil {
		location = time.UTC
	}
	return &EntryService{
		entries:     entries,
		preferences: preferences,
		analyzer:    analyzer,
		location:    location,
		now:         time.Now,
		logger:      logging.OrNop(logger).Named("entries"),
	}
}

func (service *EntryService) Today() time.Time {
	return DateAtLocation(service.now(), service.location)
}

// SubmitReflection creates or updates the caller's entry for a day. The
// boolean result is true when a new entry was inserted.
func (service *EntryService) SubmitReflection(ctx context.Context, userID string, input ReflectionInput) (models.JournalEntry, bool, error) {
	if strings.TrimSpace(userID) == "" {
		return models.JournalEntry{}, false, ErrUnauthorized
	}

	now := service.now().In(service.location)
	validated, err := validateReflectionInput(input, now)
	if err != nil {
		return models.JournalEntry{}, false, err
	}

	prefs, err := service.loadPreferences(ctx, userID)
	if err != nil {
		return models.JournalEntry{}, false, err
	}
	if phase, ok := predictPhaseFromPreferences(prefs, now); ok {
		validated.PredictedPhase = phase
	}

	existing, found, err := service.entries.FindByUserAndDate(ctx, userID, validated.Date)
	if err != nil {
		return models.JournalEntry{}, false, storageError("load entry", err)
	}

	patch, outcome := service.analyze(ctx, userID, validated.Text)

	// The model call may have used up the request deadline. The write still
	// has to happen, so it gets its own budget.
	ctx, cancel := service.persistContext(ctx)
	defer cancel()

	if found {
		applySubmission(&existing, validated, patch, outcome, false)
		if err := service.entries.Save(ctx, &existing); err != nil {
			return models.JournalEntry{}, false, storageError("update entry", err)
		}
		return existing, false, nil
	}

	entry := models.JournalEntry{UserID: userID, Date: validated.Date}
	applySubmission(&entry, validated, patch, outcome, true)
	err = service.entries.Create(ctx, &entry)
	if err == nil {
		service.logger.Info("entry created", zap.String("user_id", userID), zap.String("date", entry.Date), zap.String("analysis_status", entry.AnalysisStatus))
		return entry, true, nil
	}
	if !errors.Is(err, db.ErrDuplicateEntry) {
		return models.JournalEntry{}, false, storageError("create entry", err)
	}

	service.logger.Info("concurrent entry creation detected, retrying as update", zap.String("user_id", userID), zap.String("date", validated.Date))
	return service.retryAsUpdate(ctx, userID, validated, patch, outcome)
}

// retryAsUpdate runs once. A second failure of the same kind is reported as
// ErrEntryConflict.
func (service *EntryService) retryAsUpdate(ctx context.Context, userID string, validated validatedReflection, patch AnalysisPatch, outcome analysisOutcome) (models.JournalEntry, bool, error) {
	existing, found, err := service.entries.FindByUserAndDate(ctx, userID, validated.Date)
	if err != nil {
		return models.JournalEntry{}, false, storageError("reload entry", err)
	}
	if !found {
		return models.JournalEntry{}, false, fmt.Errorf("%w: entry for %s vanished after duplicate insert", ErrEntryConflict, validated.Date)
	}

	applySubmission(&existing, validated, patch, outcome, false)
	if err := service.entries.Save(ctx, &existing); err != nil {
		if errors.Is(err, db.ErrDuplicateEntry) {
			return models.JournalEntry{}, false, fmt.Errorf("%w: %w", ErrEntryConflict, err)
		}
		return models.JournalEntry{}, false, storageError("update entry after conflict", err)
	}
	return existing, false, nil
}

func (service *EntryService) persistContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
}

func (service *EntryService) analyze(ctx context.Context, userID string, text string) (AnalysisPatch, analysisOutcome) {
	if service.analyzer == nil {
		return AnalysisPatch{}, analysisSkipped
	}

	result, err := service.analyzer.Analyze(ctx, text)
	if err != nil {
		service.logger.Warn("analysis unusable, keeping fallback", zap.String("user_id", userID), zap.Error(err))
		return AnalysisPatch{}, analysisFailed
	}
	if result == nil {
		return AnalysisPatch{}, analysisSkipped
	}
	return PatchFromAnalysis(result), analysisApplied
}

func applySubmission(entry *models.JournalEntry, validated validatedReflection, patch AnalysisPatch, outcome analysisOutcome, creating bool) {
	entry.ReflectionText = validated.Text
	entry.ContextualFactors = mergeContextFactors(entry.ContextualFactors, validated.Context)
	if entry.ContextualFactors.CyclePhase == "" {
		entry.ContextualFactors.CyclePhase = validated.PredictedPhase
	}
	if validated.UserTags != nil {
		entry.UserTags = validated.UserTags
	}

	switch {
	case outcome == analysisApplied:
		if creating {
			applyFallbackAnalysis(entry)
		}
		patch.ApplyTo(entry)
		entry.AnalysisStatus = models.AnalysisComplete
	case creating:
		applyFallbackAnalysis(entry)
		entry.AnalysisStatus = models.AnalysisPending
		if outcome == analysisFailed {
			entry.AnalysisStatus = models.AnalysisFailed
		}
	case outcome == analysisFailed && entry.AnalysisStatus == models.AnalysisPending:
		entry.AnalysisStatus = models.AnalysisFailed
	}
}

// GetEntryByDate returns the stored entry. A missing cycle phase is filled
// from preferences on the returned copy only.
func (service *EntryService) GetEntryByDate(ctx context.Context, userID string, date string) (models.JournalEntry, error) {
	if strings.TrimSpace(userID) == "" {
		return models.JournalEntry{}, ErrUnauthorized
	}
	day, err := ParseDay(date, service.location)
	if err != nil {
		return models.JournalEntry{}, invalidField("date", "date must be a valid YYYY-MM-DD calendar date")
	}

	entry, found, err := service.entries.FindByUserAndDate(ctx, userID, FormatDay(day))
	if err != nil {
		return models.JournalEntry{}, storageError("load entry", err)
	}
	if !found {
		return models.JournalEntry{}, ErrEntryNotFound
	}

	if entry.ContextualFactors.CyclePhase == "" {
		service.backfillCyclePhase(ctx, &entry)
	}
	return entry, nil
}

func (service *EntryService) backfillCyclePhase(ctx context.Context, entry *models.JournalEntry) {
	prefs, found, err := service.preferences.FindByUserID(ctx, entry.UserID)
	if err != nil {
		service.logger.Warn("cycle phase backfill skipped", zap.String("user_id", entry.UserID), zap.Error(err))
		return
	}
	if !found {
		return
	}
	if phase, ok := predictPhaseFromPreferences(prefs, service.now().In(service.location)); ok {
		entry.ContextualFactors.CyclePhase = phase
	}
}

func (service *EntryService) ListEntries(ctx context.Context, userID string, limit int, offset int) (EntryPage, error) {
	if strings.TrimSpace(userID) == "" {
		return EntryPage{}, ErrUnauthorized
	}
	limit = ClampEntriesLimit(limit)
	if offset < 0 {
		offset = 0
	}

	entries, err := service.entries.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return EntryPage{}, storageError("list entries", err)
	}
	total, err := service.entries.CountByUser(ctx, userID)
	if err != nil {
		return EntryPage{}, storageError("count entries", err)
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	return EntryPage{Entries: entries, Total: total, Limit: limit, Offset: offset}, nil
}

// ClampEntriesLimit treats zero as "use the default page size".
func ClampEntriesLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultEntriesLimit
	case limit < 1:
		return 1
	case limit > MaxEntriesLimit:
		return MaxEntriesLimit
	default:
		return limit
	}
}

func (service *EntryService) loadPreferences(ctx context.Context, userID string) (models.UserPreferences, error) {
	prefs, found, err := service.preferences.FindByUserID(ctx, userID)
	if err != nil {
		return models.UserPreferences{}, storageError("load preferences", err)
	}
	if !found {
		return models.DefaultUserPreferences(userID), nil
	}
	return prefs, nil
}

func storageError(action string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, action, err)
}
