package cli

import (
	"fmt"
	"io"

	"github.com/terraincognita07/innerweather/internal/db"
	"github.com/terraincognita07/innerweather/internal/models"
	"go.uber.org/zap"
)

// RunMigrateCommand opens the database, which applies pending migrations,
// and reports how many journal entries it holds.
func RunMigrateCommand(out io.Writer, dbPath string, logger *zap.Logger) error {
	database, err := db.OpenSQLite(dbPath, logger)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer func() {
		_ = db.Close(database)
	}()

	var entries int64
	if err := database.Model(&models.JournalEntry{}).Count(&entries).Error; err != nil {
		return fmt.Errorf("count journal entries: %w", err)
	}

	_, err = fmt.Fprintf(out, "database ready at %s (%d journal entries)\n", dbPath, entries)
	return err
}
