package services

import (
	"time"

	"homefinance/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecurringDetectionServiceInterface is the public entry point of the
// recurring-transaction detector. GetPatterns runs (or serves from cache) a
// full detection pass over the household's transaction history and returns
// the detected patterns ordered by confidence.
type RecurringDetectionServiceInterface interface {
	GetPatterns(filters models.RecurringPatternFilters) ([]models.RecurringPattern, error)

	// ResetPatternState clears the pattern cache synchronously. Used to
	// guarantee isolation between runs that seed different transaction
	// fixtures against the same process.
	ResetPatternState()
}

// PatternGrouperInterface groups raw transactions into candidate recurrence clusters
type PatternGrouperInterface interface {
	Group(transactions []models.Transaction) []Cluster
}

// FrequencyClassifierInterface assigns a cadence to a cluster or rejects it
type FrequencyClassifierInterface interface {
	Classify(cluster Cluster) (FrequencyClassification, bool)
}

// ConfidenceScorerInterface computes a 0-100 confidence score and discrete level
type ConfidenceScorerInterface interface {
	Score(cluster Cluster, classification FrequencyClassification) ConfidenceResult
}

// PatternProjectorInterface projects the next expected occurrence date
type PatternProjectorInterface interface {
	Project(lastOccurrence time.Time, frequency models.Frequency) time.Time
}

// TransactionGeneratorInterface generates realistic household transaction
// fixtures with embedded recurring obligations, for development seeding and tests
type TransactionGeneratorInterface interface {
	GenerateRecurringHistory(accountID uuid.UUID, endDate time.Time, months int) []models.Transaction
	GenerateMonthlySubscription(accountID uuid.UUID, merchant string, amount decimal.Decimal, firstDate time.Time, occurrences int) []models.Transaction
	GenerateBiweeklyPayroll(accountID uuid.UUID, employer string, amount decimal.Decimal, firstDate time.Time, occurrences int) []models.Transaction
	GenerateNoise(accountID uuid.UUID, startDate time.Time, days, count int) []models.Transaction
}

// MetricsRecorderInterface abstracts the metrics backend
type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}
