package models

import "time"

const (
	DefaultCycleLength = 28
	MinCycleLength     = 21
	MaxCycleLength     = 40
)

type UserPreferences struct {
	ID                   uint      `gorm:"primaryKey" json:"-"`
	UserID               string    `gorm:"not null;uniqueIndex" json:"-"`
	CycleTrackingEnabled bool      `gorm:"not null;default:false" json:"cycleTrackingEnabled"`
	HealthDataEnabled    bool      `gorm:"not null;default:false" json:"healthDataEnabled"`
	LastPeriodStart      *string   `gorm:"size:10" json:"lastPeriodStart"`
	CycleLength          int       `gorm:"not null;default:28" json:"cycleLength"`
	CreatedAt            time.Time `json:"-"`
	UpdatedAt            time.Time `json:"-"`
}

func DefaultUserPreferences(userID string) UserPreferences {
	return UserPreferences{
		UserID:      userID,
		CycleLength: DefaultCycleLength,
	}
}

// ClampCycleLength keeps a stored or requested cycle length inside [21, 40].
func ClampCycleLength(value int) int {
	if value < MinCycleLength {
		return MinCycleLength
	}
	if value > MaxCycleLength {
		return MaxCycleLength
	}
	return value
}
