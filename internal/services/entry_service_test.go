package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/terraincognita07/innerweather/internal/analysis"
	"github.com/terraincognita07/innerweather/internal/db"
	"github.com/terraincognita07/innerweather/internal/models"
)

type entryRepositoryStub struct {
	mu        sync.Mutex
	entries   map[string]models.JournalEntry
	nextID    int
	findErr   error
	createErr error
	saveErr   error
	saves     int
	creates   int

	// onDuplicate runs when Create hits an existing key, before the error is
	// returned. Tests use it to simulate rows disappearing between calls.
	onDuplicate func()
	// beforeCreate runs once per Create call, outside the lock.
	beforeCreate func(entry *models.JournalEntry)
}

func newEntryRepositoryStub() *entryRepositoryStub {
	return &entryRepositoryStub{entries: make(map[string]models.JournalEntry), nextID: 1}
}

func entryKey(userID string, date string) string {
	return userID + "|" + date
}

func (stub *entryRepositoryStub) FindByUserAndDate(_ context.Context, userID string, date string) (models.JournalEntry, bool, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.findErr != nil {
		return models.JournalEntry{}, false, stub.findErr
	}
	entry, ok := stub.entries[entryKey(userID, date)]
	return entry, ok, nil
}

func (stub *entryRepositoryStub) Create(ctx context.Context, entry *models.JournalEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if stub.beforeCreate != nil {
		stub.beforeCreate(entry)
	}

	stub.mu.Lock()
	stub.creates++
	if stub.createErr != nil {
		err := stub.createErr
		stub.mu.Unlock()
		return err
	}
	key := entryKey(entry.UserID, entry.Date)
	if _, exists := stub.entries[key]; exists {
		hook := stub.onDuplicate
		stub.mu.Unlock()
		if hook != nil {
			hook()
		}
		return fmt.Errorf("%w: user %s date %s", db.ErrDuplicateEntry, entry.UserID, entry.Date)
	}
	entry.ID = fmt.Sprintf("entry-%03d", stub.nextID)
	stub.nextID++
	stub.entries[key] = *entry
	stub.mu.Unlock()
	return nil
}

func (stub *entryRepositoryStub) Save(ctx context.Context, entry *models.JournalEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.saves++
	if stub.saveErr != nil {
		return stub.saveErr
	}
	stub.entries[entryKey(entry.UserID, entry.Date)] = *entry
	return nil
}

func (stub *entryRepositoryStub) ListByUser(_ context.Context, userID string, limit int, offset int) ([]models.JournalEntry, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	entries := make([]models.JournalEntry, 0)
	for _, entry := range stub.entries {
		if entry.UserID == userID {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})
	if offset >= len(entries) {
		return []models.JournalEntry{}, nil
	}
	entries = entries[offset:]
	if limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

func (stub *entryRepositoryStub) ListWithHealthContext(ctx context.Context, userID string, limit int) ([]models.JournalEntry, error) {
	all, err := stub.ListByUser(ctx, userID, 1<<30, 0)
	if err != nil {
		return nil, err
	}
	entries := make([]models.JournalEntry, 0, limit)
	for _, entry := range all {
		factors := entry.ContextualFactors
		if factors.SleepHours == nil && factors.ActivityLevel == "" {
			continue
		}
		if len(entries) == limit {
			break
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (stub *entryRepositoryStub) CountByUser(_ context.Context, userID string) (int64, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	var total int64
	for _, entry := range stub.entries {
		if entry.UserID == userID {
			total++
		}
	}
	return total, nil
}

func (stub *entryRepositoryStub) rowCount() int {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	return len(stub.entries)
}

type preferencesRepositoryStub struct {
	mu        sync.Mutex
	prefs     map[string]models.UserPreferences
	findErr   error
	upsertErr error
}

func newPreferencesRepositoryStub() *preferencesRepositoryStub {
	return &preferencesRepositoryStub{prefs: make(map[string]models.UserPreferences)}
}

func (stub *preferencesRepositoryStub) FindByUserID(_ context.Context, userID string) (models.UserPreferences, bool, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.findErr != nil {
		return models.UserPreferences{}, false, stub.findErr
	}
	prefs, ok := stub.prefs[userID]
	return prefs, ok, nil
}

func (stub *preferencesRepositoryStub) Upsert(_ context.Context, prefs *models.UserPreferences) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.upsertErr != nil {
		return stub.upsertErr
	}
	stub.prefs[prefs.UserID] = *prefs
	return nil
}

type analyzerStub struct {
	mu     sync.Mutex
	result *analysis.Result
	err    error
	texts  []string
}

func (stub *analyzerStub) Analyze(_ context.Context, text string) (*analysis.Result, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.texts = append(stub.texts, text)
	return stub.result, stub.err
}

var fixedNow = time.Date(2025, time.March, 14, 15, 30, 0, 0, time.UTC)

func newEntryServiceForTest(entries *entryRepositoryStub, prefs *preferencesRepositoryStub, analyzer ReflectionAnalyzer) *EntryService {
	service := NewEntryService(entries, prefs, analyzer, time.UTC, nil)
	service.now = func() time.Time { return fixedNow }
	return service
}

func stormsResult() *analysis.Result {
	secondary := models.WeatherGusts
	return &analysis.Result{
		PrimaryWeather:     models.WeatherStorms,
		SecondaryWeather:   &secondary,
		Explanation:        "Deadlines stacked up.",
		ShelterSuggestions: []models.ShelterSuggestion{{Text: "Walk", Icon: "🚶"}},
		Guardrails:         &models.Guardrails{NotIdeal: []string{"Arguments"}, BetterSuited: []string{"Lists"}},
		ClosingMessage:     "Storms pass.",
		Productivity: &models.ProductivityInsights{
			Morning: &models.ProductivitySlot{ProductivityLevel: models.ProductivityLow, Insight: "Slow", Suggestion: "Coffee"},
		},
	}
}

func TestSubmitReflectionCreatesFallbackEntryWithoutAnalyzer(t *testing.T) {
	entries := newEntryRepositoryStub()
	service := newEntryServiceForTest(entries, newPreferencesRepositoryStub(), nil)

	entry, created, err := service.SubmitReflection(context.Background(), "user-1", ReflectionInput{Text: "  Quiet day, mostly reading.  "})
	if err != nil {
		t.Fatalf("SubmitReflection() unexpected error: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true")
	}
	if entry.Date != "2025-03-14" {
		t.Fatalf("expected default date 2025-03-14, got %q", entry.Date)
	}
	if entry.ReflectionText != "Quiet day, mostly reading." {
		t.Fatalf("expected trimmed reflection, got %q", entry.ReflectionText)
	}
	if entry.PrimaryWeather != models.WeatherFog {
		t.Fatalf("expected fog fallback, got %q", entry.PrimaryWeather)
	}
	if entry.AnalysisStatus != models.AnalysisPending {
		t.Fatalf("expected pending status, got %q", entry.AnalysisStatus)
	}
	if len(entry.ShelterSuggestions) != 3 || entry.ClosingMessage != fallbackClosingMessage {
		t.Fatalf("expected fallback copy, got %#v", entry)
	}
	if entry.ID == "" {
		t.Fatalf("expected repository to assign an id")
	}
}

func TestSubmitReflectionAppliesAnalysisOnCreate(t *testing.T) {
	entries := newEntryRepositoryStub()
	analyzer := &analyzerStub{result: stormsResult()}
	service := newEntryServiceForTest(entries, newPreferencesRepositoryStub(), analyzer)

	entry, created, err := service.SubmitReflection(context.Background(), "user-1", ReflectionInput{
		Date: "2025-03-10",
		Text: "Three deadlines moved up at once.",
	})
	if err != nil {
		t.Fatalf("SubmitReflection() unexpected error: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true")
	}
	if entry.PrimaryWeather != models.WeatherStorms || entry.AnalysisStatus != models.AnalysisComplete {
		t.Fatalf("expected complete storms entry, got %q/%q", entry.PrimaryWeather, entry.AnalysisStatus)
	}
	if entry.SecondaryWeather == nil || *entry.SecondaryWeather != models.WeatherGusts {
		t.Fatalf("expected gusts secondary weather, got %v", entry.SecondaryWeather)
	}
	if entry.ProductivityInsights == nil || entry.ProductivityInsights.Morning == nil {
		t.Fatalf("expected productivity insights to be stored")
	}
	if len(analyzer.texts) != 1 || analyzer.texts[0] != "Three deadlines moved up at once." {
		t.Fatalf("expected analyzer to receive trimmed text once, got %#v", analyzer.texts)
	}
}

func TestSubmitReflectionParseFailureMarksNewEntryFailed(t *testing.T) {
	entries := newEntryRepositoryStub()
	analyzer := &analyzerStub{err: &analysis.ParseError{Raw: "nope", Err: errors.New("invalid character")}}
	service := newEntryServiceForTest(entries, newPreferencesRepositoryStub(), analyzer)

	entry, _, err := service.SubmitReflection(context.Background(), "user-1", ReflectionInput{Text: "A long and tiring afternoon."})
	if err != nil {
		t.Fatalf("parse failures must not surface, got %v", err)
	}
	if entry.AnalysisStatus != models.AnalysisFailed || entry.PrimaryWeather != models.WeatherFog {
		t.Fatalf("expected failed fog entry, got %q/%q", entry.AnalysisStatus, entry.PrimaryWeather)
	}
}

func TestSubmitReflectionUpdateWithoutAnalysisKeepsPreviousReading(t *testing.T) {
	entries := newEntryRepositoryStub()
	prefs := newPreferencesRepositoryStub()
	analyzer := &analyzerStub{result: stormsResult()}
	service := newEntryServiceForTest(entries, prefs, analyzer)

	first, _, err := service.SubmitReflection(context.Background(), "user-1", ReflectionInput{
		Date:     "2025-03-12",
		Text:     "Deadlines everywhere today.",
		UserTags: []string{"work"},
	})
	if err != nil {
		t.Fatalf("first submission failed: %v", err)
	}

	analyzer.result = nil
	sleep := 7.5
	updated, created, err := service.SubmitReflection(context.Background(), "user-1", ReflectionInput{
		Date:    "2025-03-12",
		Text:    "Actually it calmed down later.",
		Context: &ContextInput{SleepHours: &sleep},
	})
	if err != nil {
		t.Fatalf("second submission failed: %v", err)
	}
	if created {
		t.Fatalf("expected update, got created=true")
	}
	if updated.ID != first.ID {
		t.Fatalf("expected same entry id %q, got %q", first.ID, updated.ID)
	}
	if updated.ReflectionText != "Actually it calmed down later." {
		t.Fatalf("expected reflection to be replaced, got %q", updated.ReflectionText)
	}
	if updated.PrimaryWeather != models.WeatherStorms || updated.Explanation != first.Explanation {
		t.Fatalf("AI fields regressed: %q / %q", updated.PrimaryWeather, updated.Explanation)
	}
	if updated.AnalysisStatus != models.AnalysisComplete {
		t.Fatalf("expected status to stay complete, got %q", updated.AnalysisStatus)
	}
	if strings.Join(updated.UserTags, ",") != "work" {
		t.Fatalf("expected stored tags to be kept when none supplied, got %#v", updated.UserTags)
	}
	if updated.ContextualFactors.SleepHours == nil || *updated.ContextualFactors.SleepHours != 7.5 {
		t.Fatalf("expected sleep hours to merge into context")
	}
	if entries.rowCount() != 1 {
		t.Fatalf("expected one stored row, got %d", entries.rowCount())
	}
}

func TestSubmitReflectionUpdateMarksPendingEntryFailed(t *testing.T) {
	entries := newEntryRepositoryStub()
	analyzer := &analyzerStub{}
	service := newEntryServiceForTest(entries, newPreferencesRepositoryStub(), analyzer)

	if _, _, err := service.SubmitReflection(context.Background(), "user-1", ReflectionInput{Text: "Pending first pass."}); err != nil {
		t.Fatalf("first submission failed: %v", err)
	}

	analyzer.err = &analysis.ParseError{Raw: "{", Err: errors.New("unexpected end of JSON input")}
	entry, _, err := service.SubmitReflection(context.Background(), "user-1", ReflectionInput{Text: "Second pass after lunch."})
	if err != nil {
		t.Fatalf("second submission failed: %v", err)
	}
	if entry.AnalysisStatus != models.AnalysisFailed {
		t.Fatalf("expected failed status, got %q", entry.AnalysisStatus)
	}
}

func TestSubmitReflectionDefaultsCyclePhaseFromPreferences(t *testing.T) {
	entries := newEntryRepositoryStub()
	prefs := newPreferencesRepositoryStub()
	start := "2025-03-01"
	prefs.prefs["user-1"] = models.UserPreferences{UserID: "user-1", CycleTrackingEnabled: true, LastPeriodStart: &start, CycleLength: 28}
	service := newEntryServiceForTest(entries, prefs, nil)

	entry, _, err := service.SubmitReflection(context.Background(), "user-1", ReflectionInput{Text: "Cycle day fourteen."})
	if err != nil {
		t.Fatalf("SubmitReflection() unexpected error: %v", err)
	}
	if entry.ContextualFactors.CyclePhase != models.PhaseOvulatory {
		t.Fatalf("expected predicted phase %q, got %q", models.PhaseOvulatory, entry.ContextualFactors.CyclePhase)
	}

	explicit := models.PhaseLuteal
	entry, _, err = service.SubmitReflection(context.Background(), "user-1", ReflectionInput{
		Text:    "I know better today.",
		Context: &ContextInput{CyclePhase: &explicit},
	})
	if err != nil {
		t.Fatalf("SubmitReflection() unexpected error: %v", err)
	}
	if entry.ContextualFactors.CyclePhase != models.PhaseLuteal {
		t.Fatalf("explicit phase must win, got %q", entry.ContextualFactors.CyclePhase)
	}
}

func TestSubmitReflectionKeepsStoredCyclePhaseOnResubmission(t *testing.T) {
	entries := newEntryRepositoryStub()
	prefs := newPreferencesRepositoryStub()
	start := "2025-03-01"
	prefs.prefs["user-1"] = models.UserPreferences{UserID: "user-1", CycleTrackingEnabled: true, LastPeriodStart: &start, CycleLength: 28}
	service := newEntryServiceForTest(entries, prefs, nil)

	explicit := models.PhaseLuteal
	if _, _, err := service.SubmitReflection(context.Background(), "user-1", ReflectionInput{
		Text:    "Feels like the end of the cycle.",
		Context: &ContextInput{CyclePhase: &explicit},
	}); err != nil {
		t.Fatalf("first submission failed: %v", err)
	}

	entry, created, err := service.SubmitReflection(context.Background(), "user-1", ReflectionInput{Text: "Adding a note in the evening."})
	if err != nil {
		t.Fatalf("second submission failed: %v", err)
	}
	if created {
		t.Fatalf("expected update, got created=true")
	}
	if entry.ContextualFactors.CyclePhase != models.PhaseLuteal {
		t.Fatalf("stored phase must survive resubmission, got %q", entry.ContextualFactors.CyclePhase)
	}

	entries.entries[entryKey("user-1", "2025-03-13")] = models.JournalEntry{ID: "bare", UserID: "user-1", Date: "2025-03-13"}
	entry, _, err = service.SubmitReflection(context.Background(), "user-1", ReflectionInput{Date: "2025-03-13", Text: "Backdated thoughts."})
	if err != nil {
		t.Fatalf("backdated submission failed: %v", err)
	}
	if entry.ContextualFactors.CyclePhase != models.PhaseOvulatory {
		t.Fatalf("expected empty stored phase to be filled with %q, got %q", models.PhaseOvulatory, entry.ContextualFactors.CyclePhase)
	}
}

// blockingGenerator never answers; it returns once its context ends.
type blockingGenerator struct{}

func (blockingGenerator) Generate(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestSubmitReflectionPersistsAfterModelExhaustsRequestDeadline(t *testing.T) {
	entries := newEntryRepositoryStub()
	analyzer := analysis.NewAnalyzer(blockingGenerator{}, time.Minute, nil)
	service := newEntryServiceForTest(entries, newPreferencesRepositoryStub(), analyzer)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	entry, created, err := service.SubmitReflection(ctx, "user-1", ReflectionInput{Text: "The model is slow today, save this anyway."})
	if err != nil {
		t.Fatalf("slow model must not fail the write, got %v", err)
	}
	if !created {
		t.Fatalf("expected created=true")
	}
	if entry.PrimaryWeather != models.WeatherFog || entry.AnalysisStatus != models.AnalysisPending {
		t.Fatalf("expected pending fog entry, got %q/%q", entry.PrimaryWeather, entry.AnalysisStatus)
	}
	if entries.rowCount() != 1 {
		t.Fatalf("expected one stored row, got %d", entries.rowCount())
	}
}

func TestSubmitReflectionRetriesDuplicateInsertAsUpdate(t *testing.T) {
	entries := newEntryRepositoryStub()
	entries.beforeCreate = func(entry *models.JournalEntry) {
		entries.beforeCreate = nil
		entries.mu.Lock()
		entries.entries[entryKey(entry.UserID, entry.Date)] = models.JournalEntry{
			ID:             "entry-racer",
			UserID:         entry.UserID,
			Date:           entry.Date,
			ReflectionText: "from another tab",
			PrimaryWeather: models.WeatherClearSkies,
			AnalysisStatus: models.AnalysisComplete,
		}
		entries.mu.Unlock()
	}
	service := newEntryServiceForTest(entries, newPreferencesRepositoryStub(), nil)

	entry, created, err := service.SubmitReflection(context.Background(), "user-1", ReflectionInput{Text: "Submitted from this tab."})
	if err != nil {
		t.Fatalf("expected retry to resolve conflict, got %v", err)
	}
	if created {
		t.Fatalf("expected created=false after retry")
	}
	if entry.ID != "entry-racer" || entry.ReflectionText != "Submitted from this tab." {
		t.Fatalf("expected racer row updated with new text, got %#v", entry)
	}
	if entry.PrimaryWeather != models.WeatherClearSkies {
		t.Fatalf("retry must not overwrite AI fields with fallback, got %q", entry.PrimaryWeather)
	}
	if entries.rowCount() != 1 || entries.saves != 1 {
		t.Fatalf("expected one row and one save, got rows=%d saves=%d", entries.rowCount(), entries.saves)
	}
}

func TestSubmitReflectionSecondConflictIsFatal(t *testing.T) {
	entries := newEntryRepositoryStub()
	entries.entries[entryKey("user-1", "2025-03-14")] = models.JournalEntry{ID: "ghost", UserID: "user-1", Date: "2025-03-14"}
	entries.onDuplicate = func() {
		entries.mu.Lock()
		delete(entries.entries, entryKey("user-1", "2025-03-14"))
		entries.mu.Unlock()
	}

	service := newEntryServiceForTest(entries, newPreferencesRepositoryStub(), nil)
	// Force the create path by hiding the row from the first lookup.
	service.entries = &hideFirstLookup{entryRepositoryStub: entries}

	_, _, err := service.SubmitReflection(context.Background(), "user-1", ReflectionInput{Text: "Vanishing row case."})
	if !errors.Is(err, ErrEntryConflict) {
		t.Fatalf("expected ErrEntryConflict, got %v", err)
	}
	if entries.creates != 1 {
		t.Fatalf("expected exactly one insert attempt, got %d", entries.creates)
	}
}

type hideFirstLookup struct {
	*entryRepositoryStub
	looked bool
}

func (repo *hideFirstLookup) FindByUserAndDate(ctx context.Context, userID string, date string) (models.JournalEntry, bool, error) {
	if !repo.looked {
		repo.looked = true
		return models.JournalEntry{}, false, nil
	}
	return repo.entryRepositoryStub.FindByUserAndDate(ctx, userID, date)
}

func TestSubmitReflectionWrapsStorageErrors(t *testing.T) {
	entries := newEntryRepositoryStub()
	entries.createErr = errors.New("disk full")
	service := newEntryServiceForTest(entries, newPreferencesRepositoryStub(), nil)

	_, _, err := service.SubmitReflection(context.Background(), "user-1", ReflectionInput{Text: "Storage trouble."})
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected cause in error, got %v", err)
	}

	prefs := newPreferencesRepositoryStub()
	prefs.findErr = errors.New("locked")
	service = newEntryServiceForTest(newEntryRepositoryStub(), prefs, nil)
	if _, _, err := service.SubmitReflection(context.Background(), "user-1", ReflectionInput{Text: "Preferences trouble."}); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable from preferences, got %v", err)
	}
}

func TestSubmitReflectionRequiresUser(t *testing.T) {
	service := newEntryServiceForTest(newEntryRepositoryStub(), newPreferencesRepositoryStub(), nil)
	if _, _, err := service.SubmitReflection(context.Background(), "  ", ReflectionInput{Text: "hello there"}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGetEntryByDate(t *testing.T) {
	entries := newEntryRepositoryStub()
	prefs := newPreferencesRepositoryStub()
	start := "2025-03-10"
	prefs.prefs["user-1"] = models.UserPreferences{UserID: "user-1", CycleTrackingEnabled: true, LastPeriodStart: &start, CycleLength: 28}
	entries.entries[entryKey("user-1", "2025-03-13")] = models.JournalEntry{ID: "e1", UserID: "user-1", Date: "2025-03-13"}
	service := newEntryServiceForTest(entries, prefs, nil)

	entry, err := service.GetEntryByDate(context.Background(), "user-1", "2025-03-13")
	if err != nil {
		t.Fatalf("GetEntryByDate() unexpected error: %v", err)
	}
	if entry.ContextualFactors.CyclePhase != models.PhaseMenstrual {
		t.Fatalf("expected backfilled phase, got %q", entry.ContextualFactors.CyclePhase)
	}
	stored := entries.entries[entryKey("user-1", "2025-03-13")]
	if stored.ContextualFactors.CyclePhase != "" {
		t.Fatalf("backfill must not be persisted")
	}
	if entries.saves != 0 {
		t.Fatalf("expected no writes on read, got %d", entries.saves)
	}

	if _, err := service.GetEntryByDate(context.Background(), "user-1", "2099-01-01"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}

	_, err = service.GetEntryByDate(context.Background(), "user-1", "2025-02-30")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "date" {
		t.Fatalf("expected date validation error, got %v", err)
	}
}

func TestListEntriesClampsPaging(t *testing.T) {
	entries := newEntryRepositoryStub()
	for day := 1; day <= 5; day++ {
		date := fmt.Sprintf("2025-03-%02d", day)
		entries.entries[entryKey("user-1", date)] = models.JournalEntry{ID: date, UserID: "user-1", Date: date}
	}
	entries.entries[entryKey("user-2", "2025-03-01")] = models.JournalEntry{ID: "other", UserID: "user-2", Date: "2025-03-01"}
	service := newEntryServiceForTest(entries, newPreferencesRepositoryStub(), nil)

	page, err := service.ListEntries(context.Background(), "user-1", 2, -4)
	if err != nil {
		t.Fatalf("ListEntries() unexpected error: %v", err)
	}
	if page.Limit != 2 || page.Offset != 0 || page.Total != 5 {
		t.Fatalf("unexpected paging metadata %#v", page)
	}
	if len(page.Entries) != 2 || page.Entries[0].Date != "2025-03-05" || page.Entries[1].Date != "2025-03-04" {
		t.Fatalf("expected newest-first page, got %#v", page.Entries)
	}

	tests := []struct {
		in   int
		want int
	}{
		{in: 0, want: DefaultEntriesLimit},
		{in: -3, want: 1},
		{in: 1, want: 1},
		{in: 100, want: 100},
		{in: 101, want: MaxEntriesLimit},
	}
	for _, tc := range tests {
		if got := ClampEntriesLimit(tc.in); got != tc.want {
			t.Fatalf("ClampEntriesLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
