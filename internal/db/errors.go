package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrDuplicateEntry reports that a row with the same unique key already exists.
var ErrDuplicateEntry = errors.New("duplicate entry")

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Older driver builds surface the raw sqlite message instead of the translated error.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
