package db

import "gorm.io/gorm"

type Repositories struct {
	Entries     *EntryRepository
	Preferences *PreferencesRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Entries:     NewEntryRepository(database),
		Preferences: NewPreferencesRepository(database),
	}
}
