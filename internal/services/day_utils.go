package services

import (
	"strings"
	"time"
)

const DayLayout = "2006-01-02"

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// ParseDay parses a YYYY-MM-DD string as midnight in location. Impossible
// dates such as 2024-02-30 are rejected.
func ParseDay(raw string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	return time.ParseInLocation(DayLayout, strings.TrimSpace(raw), location)
}

func FormatDay(value time.Time) string {
	return value.Format(DayLayout)
}

// calendarDaysBetween counts calendar days from start to end in end's
// location, ignoring clock time and DST shifts.
func calendarDaysBetween(start time.Time, end time.Time) int {
	location := end.Location()
	startYear, startMonth, startDay := start.In(location).Date()
	endYear, endMonth, endDay := end.Date()
	from := time.Date(startYear, startMonth, startDay, 0, 0, 0, 0, time.UTC)
	to := time.Date(endYear, endMonth, endDay, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
