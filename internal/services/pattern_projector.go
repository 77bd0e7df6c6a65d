package services

import (
	"time"

	"homefinance/internal/models"
)

// patternProjector implements PatternProjectorInterface
type patternProjector struct{}

// NewPatternProjector creates a new pattern projector
func NewPatternProjector() PatternProjectorInterface {
	return &patternProjector{}
}

// Project computes the next expected occurrence from the last one: 7 days for
// Weekly, 14 for Biweekly, one calendar month for Monthly. Monthly projection
// clamps the day of month to the last day of the target month when the
// original day does not exist there (Jan 31 -> Feb 28/29).
func (p *patternProjector) Project(lastOccurrence time.Time, frequency models.Frequency) time.Time {
	switch frequency {
	case models.FrequencyWeekly:
		return lastOccurrence.AddDate(0, 0, 7)
	case models.FrequencyBiweekly:
		return lastOccurrence.AddDate(0, 0, 14)
	default:
		return addCalendarMonth(lastOccurrence)
	}
}

// addCalendarMonth advances one calendar month with day-of-month clamping.
// time.AddDate normalizes Jan 31 + 1 month into March; this clamps to Feb
// 28/29 instead.
func addCalendarMonth(t time.Time) time.Time {
	year, month, day := t.Date()

	firstOfTarget := time.Date(year, month, 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	if last := daysInMonth(firstOfTarget.Year(), firstOfTarget.Month()); day > last {
		day = last
	}

	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, t.Location())
}

// daysInMonth returns the number of days in the given month
func daysInMonth(year int, month time.Month) int {
	// Day zero of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
