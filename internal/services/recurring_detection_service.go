package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"homefinance/internal/models"
	"homefinance/internal/repositories"
)

// recurringDetectionService orchestrates the detection pipeline:
// feed -> grouper -> classifier -> scorer -> projector, behind a short-TTL cache.
type recurringDetectionService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	grouper         PatternGrouperInterface
	classifier      FrequencyClassifierInterface
	scorer          ConfidenceScorerInterface
	projector       PatternProjectorInterface
	cache           *PatternCache
	metrics         MetricsRecorderInterface
}

// NewRecurringDetectionService creates a new recurring detection service.
// The pipeline stages are stateless and constructed internally; the cache and
// feed are injected.
func NewRecurringDetectionService(
	transactionRepo repositories.TransactionRepositoryInterface,
	cache *PatternCache,
	metrics MetricsRecorderInterface,
) RecurringDetectionServiceInterface {
	if metrics == nil {
		metrics = noopMetricsRecorder{}
	}
	return &recurringDetectionService{
		transactionRepo: transactionRepo,
		grouper:         NewPatternGrouper(),
		classifier:      NewFrequencyClassifier(),
		scorer:          NewConfidenceScorer(),
		projector:       NewPatternProjector(),
		cache:           cache,
		metrics:         metrics,
	}
}

// GetPatterns returns the recurring patterns detected in the households'
// transaction history, ordered by confidence score descending. Results are
// memoized per canonical filter key for the cache TTL.
func (s *recurringDetectionService) GetPatterns(filters models.RecurringPatternFilters) ([]models.RecurringPattern, error) {
	key := filters.CanonicalKey()

	if cached, ok := s.cache.Get(key); ok {
		s.metrics.IncrementCounter("pattern_cache.lookup", map[string]string{"result": "hit"})
		return cached, nil
	}
	s.metrics.IncrementCounter("pattern_cache.lookup", map[string]string{"result": "miss"})

	started := time.Now()

	// Fetch is scoped by account only. Confidence level and frequency are
	// post-filters: detection must see the full history per account to
	// compute intervals correctly.
	transactions, err := s.transactionRepo.GetForRecurringDetection(filters.AccountIDs)
	if err != nil {
		slog.Error("failed to fetch transactions for recurring detection",
			"account_count", len(filters.AccountIDs),
			"error", err)
		s.metrics.IncrementCounter("recurring_detection.runs", map[string]string{"result": "error"})
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	patterns := s.detect(transactions)
	patterns = applyPostFilters(patterns, filters)

	s.cache.Set(key, patterns)

	elapsed := time.Since(started)
	s.metrics.IncrementCounter("recurring_detection.runs", map[string]string{"result": "success"})
	s.metrics.RecordProcessingTime("recurring_detection.duration", elapsed)
	s.metrics.RecordGauge("recurring_detection.patterns", float64(len(patterns)), nil)

	slog.Info("recurring detection completed",
		"transaction_count", len(transactions),
		"pattern_count", len(patterns),
		"duration_ms", elapsed.Milliseconds())

	return patterns, nil
}

// ResetPatternState clears the pattern cache synchronously
func (s *recurringDetectionService) ResetPatternState() {
	s.cache.Reset()
	slog.Info("pattern cache reset")
}

// detect runs the pure detection pipeline over a transaction history
func (s *recurringDetectionService) detect(transactions []models.Transaction) []models.RecurringPattern {
	clusters := s.grouper.Group(transactions)

	patterns := make([]models.RecurringPattern, 0, len(clusters))
	for i := range clusters {
		cluster := &clusters[i]

		classification, ok := s.classifier.Classify(*cluster)
		if !ok {
			s.metrics.IncrementCounter("recurring_detection.clusters_rejected", map[string]string{"reason": "cadence"})
			continue
		}

		confidence := s.scorer.Score(*cluster, classification)
		if confidence.Score < MinReportableScore {
			s.metrics.IncrementCounter("recurring_detection.clusters_rejected", map[string]string{"reason": "confidence"})
			continue
		}

		patterns = append(patterns, s.buildPattern(cluster, classification, confidence))
	}

	// Deterministic total order: confidence descending, occurrence count
	// descending, pattern ID ascending for identical-score ties.
	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].ConfidenceScore != patterns[j].ConfidenceScore {
			return patterns[i].ConfidenceScore > patterns[j].ConfidenceScore
		}
		if patterns[i].OccurrenceCount != patterns[j].OccurrenceCount {
			return patterns[i].OccurrenceCount > patterns[j].OccurrenceCount
		}
		return patterns[i].PatternID < patterns[j].PatternID
	})

	return patterns
}

func (s *recurringDetectionService) buildPattern(
	cluster *Cluster,
	classification FrequencyClassification,
	confidence ConfidenceResult,
) models.RecurringPattern {
	lastOccurrence := cluster.LastOccurrence()
	nextExpected := s.projector.Project(lastOccurrence, classification.Frequency)

	return models.RecurringPattern{
		PatternID:          PatternID(cluster.AccountID.String(), cluster.NormalizedDescription),
		DescriptionPattern: cluster.RepresentativeDescription(),
		AccountID:          cluster.AccountID,
		Category:           cluster.DominantCategory(),
		AvgAmount:          cluster.MeanAmount().Round(2),
		Frequency:          classification.Frequency,
		OccurrenceCount:    len(cluster.Occurrences),
		LastOccurrenceDate: models.NewDateOnly(lastOccurrence),
		NextExpectedDate:   models.NewDateOnly(nextExpected),
		ConfidenceScore:    confidence.Score,
		ConfidenceLevel:    confidence.Level,
	}
}

// applyPostFilters applies the confidence level and frequency exact-match
// filters after detection
func applyPostFilters(patterns []models.RecurringPattern, filters models.RecurringPatternFilters) []models.RecurringPattern {
	if filters.ConfidenceLevel == nil && filters.Frequency == nil {
		return patterns
	}

	filtered := make([]models.RecurringPattern, 0, len(patterns))
	for _, pattern := range patterns {
		if filters.ConfidenceLevel != nil && pattern.ConfidenceLevel != *filters.ConfidenceLevel {
			continue
		}
		if filters.Frequency != nil && pattern.Frequency != *filters.Frequency {
			continue
		}
		filtered = append(filtered, pattern)
	}
	return filtered
}

// PatternID derives a stable identifier from the account and normalized
// description, so the same recurring charge keeps its ID across detection runs
func PatternID(accountID, normalizedDescription string) string {
	sum := sha256.Sum256([]byte(accountID + "|" + normalizedDescription))
	return hex.EncodeToString(sum[:])[:16]
}

// noopMetricsRecorder discards all measurements
type noopMetricsRecorder struct{}

func (noopMetricsRecorder) IncrementCounter(string, map[string]string)      {}
func (noopMetricsRecorder) RecordProcessingTime(string, time.Duration)     {}
func (noopMetricsRecorder) RecordGauge(string, float64, map[string]string) {}
