package db

import (
	"context"

	"github.com/terraincognita07/innerweather/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferencesRepository struct {
	database *gorm.DB
}

func NewPreferencesRepository(database *gorm.DB) *PreferencesRepository {
	return &PreferencesRepository{database: database}
}

func (repo *PreferencesRepository) FindByUserID(ctx context.Context, userID string) (models.UserPreferences, bool, error) {
	prefs := models.UserPreferences{}
	result := repo.database.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&prefs)
	if result.Error != nil {
		return models.UserPreferences{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.UserPreferences{}, false, nil
	}
	return prefs, true, nil
}

// Upsert writes the full preference row for prefs.UserID, inserting it on
// first save and overwriting the mutable columns afterwards. The conflict
// target is user_id, so the primary key is left for the database to assign.
func (repo *PreferencesRepository) Upsert(ctx context.Context, prefs *models.UserPreferences) error {
	prefs.ID = 0
	return repo.database.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"cycle_tracking_enabled",
				"health_data_enabled",
				"last_period_start",
				"cycle_length",
				"updated_at",
			}),
		}).
		Create(prefs).Error
}
