package models

const (
	WeatherStorms     = "storms"
	WeatherFog        = "fog"
	WeatherLowTide    = "low-tide"
	WeatherGusts      = "gusts"
	WeatherClearSkies = "clear-skies"
)

const (
	PhaseMenstrual  = "Menstrual"
	PhaseFollicular = "Follicular"
	PhaseOvulatory  = "Ovulatory"
	PhaseLuteal     = "Luteal"
	PhaseLateLuteal = "Late Luteal"
)

const (
	ActivityLow      = "Low"
	ActivityModerate = "Moderate"
	ActivityHigh     = "High"
)

const (
	ProductivityLow    = "low"
	ProductivityMedium = "medium"
	ProductivityHigh   = "high"
)

func IsValidWeather(value string) bool {
	switch value {
	case WeatherStorms, WeatherFog, WeatherLowTide, WeatherGusts, WeatherClearSkies:
		return true
	default:
		return false
	}
}

func IsValidCyclePhase(value string) bool {
	switch value {
	case PhaseMenstrual, PhaseFollicular, PhaseOvulatory, PhaseLuteal, PhaseLateLuteal:
		return true
	default:
		return false
	}
}

func IsValidActivityLevel(value string) bool {
	switch value {
	case ActivityLow, ActivityModerate, ActivityHigh:
		return true
	default:
		return false
	}
}

func IsValidProductivityLevel(value string) bool {
	switch value {
	case ProductivityLow, ProductivityMedium, ProductivityHigh:
		return true
	default:
		return false
	}
}
