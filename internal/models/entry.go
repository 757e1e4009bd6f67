package models

import "time"

const (
	AnalysisPending  = "pending"
	AnalysisComplete = "complete"
	AnalysisFailed   = "failed"
)

const (
	MaxReflectionLength = 5000
	MaxUserTags         = 10
	MaxUserTagLength    = 50
)

type ShelterSuggestion struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}

type Guardrails struct {
	NotIdeal     []string `json:"notIdeal"`
	BetterSuited []string `json:"betterSuited"`
}

type ContextualFactors struct {
	SleepHours    *float64 `json:"sleepHours,omitempty"`
	ActivityLevel string   `json:"activityLevel,omitempty"`
	CyclePhase    string   `json:"cyclePhase,omitempty"`
}

type ProductivitySlot struct {
	ProductivityLevel string `json:"productivityLevel"`
	Insight           string `json:"insight"`
	Suggestion        string `json:"suggestion"`
}

type ProductivityInsights struct {
	Morning *ProductivitySlot `json:"morning,omitempty"`
	Midday  *ProductivitySlot `json:"midday,omitempty"`
	Evening *ProductivitySlot `json:"evening,omitempty"`
}

// JournalEntry is the single reflection a user keeps for one calendar day.
type JournalEntry struct {
	ID                   string                `gorm:"primaryKey;size:26" json:"id"`
	UserID               string                `gorm:"not null;uniqueIndex:uidx_journal_entries_user_date" json:"userId"`
	Date                 string                `gorm:"size:10;not null;uniqueIndex:uidx_journal_entries_user_date" json:"date"`
	ReflectionText       string                `gorm:"not null" json:"reflectionText"`
	PrimaryWeather       string                `gorm:"not null" json:"primaryWeather"`
	SecondaryWeather     *string               `json:"secondaryWeather"`
	Explanation          string                `gorm:"not null" json:"explanation"`
	ShelterSuggestions   []ShelterSuggestion   `gorm:"serializer:json" json:"shelterSuggestions"`
	Guardrails           Guardrails            `gorm:"serializer:json" json:"guardrails"`
	ClosingMessage       string                `gorm:"not null" json:"closingMessage"`
	ContextualFactors    ContextualFactors     `gorm:"serializer:json" json:"contextualFactors"`
	UserTags             []string              `gorm:"serializer:json" json:"userTags"`
	ProductivityInsights *ProductivityInsights `gorm:"serializer:json" json:"productivityInsights"`
	AnalysisStatus       string                `gorm:"not null;default:pending" json:"analysisStatus"`
	CreatedAt            time.Time             `json:"createdAt"`
	UpdatedAt            time.Time             `json:"updatedAt"`
}
