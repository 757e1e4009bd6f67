package api

import (
	"github.com/terraincognita07/innerweather/internal/db"
	"github.com/terraincognita07/innerweather/internal/services"
	"gorm.io/gorm"
)

func (handler *Handler) withDependencies(database *gorm.DB, options Options) *Handler {
	handler.repositories = db.NewRepositories(database)

	var analyzer services.ReflectionAnalyzer
	if handler.analyzer.Available() {
		analyzer = handler.analyzer
	}
	handler.entryService = services.NewEntryService(handler.repositories.Entries, handler.repositories.Preferences, analyzer, handler.location, options.Logger)
	handler.preferencesService = services.NewPreferencesService(handler.repositories.Preferences, handler.location, options.Logger)
	handler.insightsService = services.NewHealthInsightsService(handler.repositories.Entries, handler.repositories.Preferences)
	return handler
}
