package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Frequency is the detected repeat cadence of a recurring pattern
type Frequency string

const (
	FrequencyWeekly   Frequency = "Weekly"
	FrequencyBiweekly Frequency = "Biweekly"
	FrequencyMonthly  Frequency = "Monthly"
)

// ConfidenceLevel buckets the 0-100 confidence score
type ConfidenceLevel string

const (
	ConfidenceLevelHigh   ConfidenceLevel = "High"
	ConfidenceLevelMedium ConfidenceLevel = "Medium"
	ConfidenceLevelLow    ConfidenceLevel = "Low"
)

var (
	ErrInvalidFrequency       = errors.New("invalid frequency value")
	ErrInvalidConfidenceLevel = errors.New("invalid confidence level value")
)

// ParseFrequency validates and normalizes a frequency string from the API boundary
func ParseFrequency(value string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "weekly":
		return FrequencyWeekly, nil
	case "biweekly":
		return FrequencyBiweekly, nil
	case "monthly":
		return FrequencyMonthly, nil
	default:
		return "", ErrInvalidFrequency
	}
}

// ParseConfidenceLevel validates and normalizes a confidence level string
func ParseConfidenceLevel(value string) (ConfidenceLevel, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "high":
		return ConfidenceLevelHigh, nil
	case "medium":
		return ConfidenceLevelMedium, nil
	case "low":
		return ConfidenceLevelLow, nil
	default:
		return "", ErrInvalidConfidenceLevel
	}
}

// RecurringPattern is a detected recurring obligation (subscription, rent,
// paycheck). Patterns are value objects recomputed on every uncached
// detection run; they are never persisted.
type RecurringPattern struct {
	PatternID          string          `json:"pattern_id"`
	DescriptionPattern string          `json:"description_pattern"`
	AccountID          uuid.UUID       `json:"account_id"`
	Category           *string         `json:"category"`
	AvgAmount          decimal.Decimal `json:"avg_amount"`
	Frequency          Frequency       `json:"frequency"`
	OccurrenceCount    int             `json:"occurrence_count"`
	LastOccurrenceDate DateOnly        `json:"last_occurrence_date"`
	NextExpectedDate   DateOnly        `json:"next_expected_date"`
	ConfidenceScore    int             `json:"confidence_score"`
	ConfidenceLevel    ConfidenceLevel `json:"confidence_level"`

	// Reserved for future user confirm/reject actions; always false today.
	IsConfirmed bool `json:"is_confirmed"`
	IsRejected  bool `json:"is_rejected"`
}
