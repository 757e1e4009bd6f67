package services

import (
	"time"

	"github.com/terraincognita07/innerweather/internal/models"
)

func normalizeCycleLength(cycleLength int) int {
	if cycleLength <= 0 {
		return models.DefaultCycleLength
	}
	return models.ClampCycleLength(cycleLength)
}

// DayOfCycle returns the 1-based cycle day of now for a cycle that began on
// start. The result always lies in [1, cycleLength].
func DayOfCycle(start time.Time, cycleLength int, now time.Time) int {
	length := normalizeCycleLength(cycleLength)
	elapsed := calendarDaysBetween(start, now)
	return ((elapsed%length)+length)%length + 1
}

// PredictCyclePhase reports the phase for now. Phase boundaries are fixed
// day ranges and do not stretch with cycleLength. Predictions are withheld
// when start is unknown, in the future, or more than two cycles back.
func PredictCyclePhase(start *time.Time, cycleLength int, now time.Time) (string, bool) {
	if start == nil {
		return "", false
	}
	length := normalizeCycleLength(cycleLength)
	elapsed := calendarDaysBetween(*start, now)
	if elapsed < 0 || elapsed > length*2 {
		return "", false
	}

	day := elapsed%length + 1
	switch {
	case day <= 5:
		return models.PhaseMenstrual, true
	case day <= 13:
		return models.PhaseFollicular, true
	case day <= 16:
		return models.PhaseOvulatory, true
	case day <= 24:
		return models.PhaseLuteal, true
	default:
		return models.PhaseLateLuteal, true
	}
}

func predictPhaseFromPreferences(prefs models.UserPreferences, now time.Time) (string, bool) {
	if !prefs.CycleTrackingEnabled || prefs.LastPeriodStart == nil {
		return "", false
	}
	start, err := ParseDay(*prefs.LastPeriodStart, now.Location())
	if err != nil {
		return "", false
	}
	return PredictCyclePhase(&start, prefs.CycleLength, now)
}
