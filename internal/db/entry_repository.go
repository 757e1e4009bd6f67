package db

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/terraincognita07/innerweather/internal/models"
	"gorm.io/gorm"
)

type EntryRepository struct {
	database *gorm.DB
}

func NewEntryRepository(database *gorm.DB) *EntryRepository {
	return &EntryRepository{database: database}
}

func (repo *EntryRepository) FindByUserAndDate(ctx context.Context, userID string, date string) (models.JournalEntry, bool, error) {
	entry := models.JournalEntry{}
	result := repo.database.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.JournalEntry{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.JournalEntry{}, false, nil
	}
	return entry, true, nil
}

// Create inserts a new entry. A second entry for the same user and date is
// rejected by the unique index and reported as ErrDuplicateEntry.
func (repo *EntryRepository) Create(ctx context.Context, entry *models.JournalEntry) error {
	if entry.ID == "" {
		entry.ID = ulid.Make().String()
	}
	if err := repo.database.WithContext(ctx).Create(entry).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user %s date %s", ErrDuplicateEntry, entry.UserID, entry.Date)
		}
		return err
	}
	return nil
}

func (repo *EntryRepository) Save(ctx context.Context, entry *models.JournalEntry) error {
	return repo.database.WithContext(ctx).Save(entry).Error
}

func (repo *EntryRepository) ListByUser(ctx context.Context, userID string, limit int, offset int) ([]models.JournalEntry, error) {
	entries := make([]models.JournalEntry, 0, limit)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListWithHealthContext returns the user's newest entries that recorded
// sleep hours or an activity level.
func (repo *EntryRepository) ListWithHealthContext(ctx context.Context, userID string, limit int) ([]models.JournalEntry, error) {
	entries := make([]models.JournalEntry, 0, limit)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("(json_extract(contextual_factors, '$.sleepHours') IS NOT NULL OR COALESCE(json_extract(contextual_factors, '$.activityLevel'), '') <> '')").
		Order("date DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *EntryRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := repo.database.WithContext(ctx).
		Model(&models.JournalEntry{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
