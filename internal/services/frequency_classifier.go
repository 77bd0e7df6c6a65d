package services

import (
	"math"
	"sort"
	"time"

	"homefinance/internal/models"
)

const (
	// MaxIntervalVariation is the highest coefficient of variation of the
	// cadence-relative intervals a cluster may have and still count as
	// regular. Irregular clusters are rejected even when the median interval
	// lands in a valid bucket, which prevents false positives on
	// coincidentally-spaced one-off charges.
	MaxIntervalVariation = 0.25

	hoursPerDay = 24
)

// FrequencyClassification is the outcome of cadence analysis for one cluster
type FrequencyClassification struct {
	Frequency models.Frequency

	// IntervalCV is the coefficient of variation of the cadence-relative
	// interval ratios (actual gap / expected gap). Measuring regularity
	// against the cadence rather than raw day counts keeps a
	// same-day-of-month charge perfectly regular across 28-31 day months.
	IntervalCV float64

	IsRegular bool
}

// frequencyClassifier implements FrequencyClassifierInterface
type frequencyClassifier struct{}

// NewFrequencyClassifier creates a new frequency classifier
func NewFrequencyClassifier() FrequencyClassifierInterface {
	return &frequencyClassifier{}
}

// Classify analyzes the inter-occurrence day intervals of a cluster and
// assigns a cadence. It returns false when the cluster is not a recognized
// cadence or the intervals are too irregular. Quarterly and annual patterns
// are intentionally out of scope: the minimum-occurrence window is usually
// too short to confirm them reliably.
func (f *frequencyClassifier) Classify(cluster Cluster) (FrequencyClassification, bool) {
	if len(cluster.Occurrences) < MinOccurrences {
		return FrequencyClassification{}, false
	}

	intervals := dayIntervals(cluster.Occurrences)
	medianInterval := median(intervals)

	frequency, ok := cadenceForMedian(medianInterval)
	if !ok {
		return FrequencyClassification{}, false
	}

	ratios := cadenceRatios(cluster.Occurrences, frequency)
	cv, ok := coefficientOfVariation(ratios)
	if !ok {
		return FrequencyClassification{}, false
	}

	classification := FrequencyClassification{
		Frequency:  frequency,
		IntervalCV: cv,
		IsRegular:  cv <= MaxIntervalVariation,
	}
	if !classification.IsRegular {
		return FrequencyClassification{}, false
	}

	return classification, true
}

// cadenceForMedian maps a median day interval to a cadence bucket
// (tolerance roughly +/-3 days around the nominal interval)
func cadenceForMedian(medianInterval float64) (models.Frequency, bool) {
	switch {
	case medianInterval >= 6 && medianInterval <= 8:
		return models.FrequencyWeekly, true
	case medianInterval >= 12 && medianInterval <= 16:
		return models.FrequencyBiweekly, true
	case medianInterval >= 27 && medianInterval <= 33:
		return models.FrequencyMonthly, true
	default:
		return "", false
	}
}

// dayIntervals returns the day gaps between consecutive occurrence days.
// Occurrences must be sorted ascending.
func dayIntervals(occurrences []time.Time) []float64 {
	intervals := make([]float64, 0, len(occurrences)-1)
	for i := 1; i < len(occurrences); i++ {
		days := occurrences[i].Sub(occurrences[i-1]).Hours() / hoursPerDay
		intervals = append(intervals, days)
	}
	return intervals
}

// cadenceRatios divides each actual gap by the gap the cadence predicts from
// the earlier occurrence. The expected monthly gap is one calendar month with
// day-of-month clamping, so month-length drift does not register as jitter.
func cadenceRatios(occurrences []time.Time, frequency models.Frequency) []float64 {
	ratios := make([]float64, 0, len(occurrences)-1)
	for i := 1; i < len(occurrences); i++ {
		actual := occurrences[i].Sub(occurrences[i-1]).Hours() / hoursPerDay

		var expected float64
		switch frequency {
		case models.FrequencyWeekly:
			expected = 7
		case models.FrequencyBiweekly:
			expected = 14
		case models.FrequencyMonthly:
			next := addCalendarMonth(occurrences[i-1])
			expected = next.Sub(occurrences[i-1]).Hours() / hoursPerDay
		}

		ratios = append(ratios, actual/expected)
	}
	return ratios
}

// median returns the median of values; for even-length input, the mean of the
// middle pair
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationStdDev returns the population standard deviation of values
func populationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	sumSquares := 0.0
	for _, v := range values {
		d := v - m
		sumSquares += d * d
	}
	return math.Sqrt(sumSquares / float64(len(values)))
}

// coefficientOfVariation returns stddev/mean, a scale-free dispersion
// measure. A zero mean cannot be normalized against; callers must treat that
// as failing the relevant regularity check rather than producing NaN.
func coefficientOfVariation(values []float64) (float64, bool) {
	m := mean(values)
	if m == 0 {
		return 0, false
	}
	return populationStdDev(values) / math.Abs(m), true
}
