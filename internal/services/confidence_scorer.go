package services

import (
	"math"

	"homefinance/internal/models"
)

const (
	// Interval regularity dominates the blend: for true recurring charges,
	// amounts are expected to vary less than timing.
	intervalRegularityWeight = 0.6
	amountStabilityWeight    = 0.4

	// Sub-score normalization ceilings: a cluster at or beyond these
	// coefficients of variation contributes nothing to the blend.
	maxAmountVariation = 0.10

	// MinReportableScore is the floor below which detections are dropped
	// outright rather than reported as Low. It keeps the Low tier meaningful
	// instead of cluttered with near-noise detections.
	MinReportableScore = 50

	confidenceHighThreshold   = 90
	confidenceMediumThreshold = 70
)

// ConfidenceResult is the outcome of scoring one cluster
type ConfidenceResult struct {
	Score int
	Level models.ConfidenceLevel
}

// confidenceScorer implements ConfidenceScorerInterface
type confidenceScorer struct{}

// NewConfidenceScorer creates a new confidence scorer
func NewConfidenceScorer() ConfidenceScorerInterface {
	return &confidenceScorer{}
}

// Score blends interval regularity and amount stability into a 0-100 score
// and maps it to a discrete High/Medium/Low level
func (s *confidenceScorer) Score(cluster Cluster, classification FrequencyClassification) ConfidenceResult {
	intervalRegularity := subScore(classification.IntervalCV, MaxIntervalVariation)
	amountStability := amountStabilityScore(cluster)

	blended := intervalRegularityWeight*intervalRegularity + amountStabilityWeight*amountStability
	score := int(math.Round(blended))
	if score < 0 {
		score = 0
	}

	return ConfidenceResult{
		Score: score,
		Level: levelForScore(score),
	}
}

// amountStabilityScore measures how tightly the cluster's amounts sit around
// their mean. A zero mean fails the sub-score outright instead of producing
// NaN.
func amountStabilityScore(cluster Cluster) float64 {
	amounts := make([]float64, 0, len(cluster.Amounts))
	for _, amount := range cluster.Amounts {
		amounts = append(amounts, amount.Abs().InexactFloat64())
	}

	cv, ok := coefficientOfVariation(amounts)
	if !ok {
		return 0
	}
	return subScore(cv, maxAmountVariation)
}

// subScore maps a coefficient of variation onto [0,100], hitting zero at the
// given ceiling
func subScore(cv, ceiling float64) float64 {
	return 100 * (1 - math.Min(1, cv/ceiling))
}

func levelForScore(score int) models.ConfidenceLevel {
	switch {
	case score >= confidenceHighThreshold:
		return models.ConfidenceLevelHigh
	case score >= confidenceMediumThreshold:
		return models.ConfidenceLevelMedium
	default:
		return models.ConfidenceLevelLow
	}
}
