package models

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DateOnly is a calendar date serialized as an ISO 8601 YYYY-MM-DD string
// with no time component. API responses carry dates in this form.
type DateOnly struct {
	time.Time
}

// NewDateOnly truncates t to a UTC calendar day
func NewDateOnly(t time.Time) DateOnly {
	u := t.UTC()
	return DateOnly{time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON implements json.Marshaler
func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", d.Format(dateLayout))), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (d *DateOnly) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date value: %s", s)
	}

	parsed, err := time.Parse(dateLayout, s[1:len(s)-1])
	if err != nil {
		return fmt.Errorf("invalid date format, expected YYYY-MM-DD: %w", err)
	}

	d.Time = parsed
	return nil
}

// String returns the date formatted as YYYY-MM-DD
func (d DateOnly) String() string {
	return d.Format(dateLayout)
}
