package services

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"homefinance/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// MinOccurrences is the minimum number of distinct occurrence days a
	// cluster needs before it counts as evidence of recurrence.
	MinOccurrences = 3
)

var (
	// Relative and absolute amount tolerances for cluster membership. Two
	// occurrences belong to the same cluster only if their amounts differ by
	// at most 5% or $1, whichever is larger.
	amountToleranceRatio    = decimal.NewFromFloat(0.05)
	amountToleranceAbsolute = decimal.NewFromInt(1)

	referencePattern = regexp.MustCompile(`#\S*`)
	dateLikePattern  = regexp.MustCompile(`\b\d{1,4}[/.-]\d{1,2}(?:[/.-]\d{1,4})?\b`)
	digitPattern     = regexp.MustCompile(`\d+`)
)

// Cluster is a transient group of transactions judged to be instances of the
// same recurring charge. It exists only for the duration of one detection run.
type Cluster struct {
	AccountID             uuid.UUID
	NormalizedDescription string

	// All amounts contribute to the average, including same-day duplicates.
	Amounts []decimal.Decimal

	// Occurrences holds distinct occurrence days, sorted ascending.
	// Same-day duplicates count once for interval purposes.
	Occurrences []time.Time

	descriptionCounts map[string]int
	categoryCounts    map[string]int
	occurrenceDays    map[time.Time]struct{}
	amountSum         decimal.Decimal
}

// MeanAmount returns the signed mean of all cluster amounts
func (c *Cluster) MeanAmount() decimal.Decimal {
	if len(c.Amounts) == 0 {
		return decimal.Zero
	}
	return c.amountSum.Div(decimal.NewFromInt(int64(len(c.Amounts))))
}

// RepresentativeDescription returns the most common raw description in the
// cluster, with a lexicographic tie-break for determinism
func (c *Cluster) RepresentativeDescription() string {
	best := ""
	bestCount := 0
	for description, count := range c.descriptionCounts {
		if count > bestCount || (count == bestCount && description < best) {
			best = description
			bestCount = count
		}
	}
	return best
}

// DominantCategory returns the most common non-empty category, or nil
func (c *Cluster) DominantCategory() *string {
	best := ""
	bestCount := 0
	for category, count := range c.categoryCounts {
		if count > bestCount || (count == bestCount && category < best) {
			best = category
			bestCount = count
		}
	}
	if bestCount == 0 {
		return nil
	}
	return &best
}

// LastOccurrence returns the most recent occurrence day
func (c *Cluster) LastOccurrence() time.Time {
	return c.Occurrences[len(c.Occurrences)-1]
}

func (c *Cluster) add(txn *models.Transaction) {
	c.Amounts = append(c.Amounts, txn.Amount)
	c.amountSum = c.amountSum.Add(txn.Amount)
	c.descriptionCounts[txn.Description]++
	if txn.Category != "" {
		c.categoryCounts[txn.Category]++
	}

	day := txn.OccurrenceDay()
	if _, seen := c.occurrenceDays[day]; !seen {
		c.occurrenceDays[day] = struct{}{}
		c.Occurrences = append(c.Occurrences, day)
	}
}

// accepts reports whether txn's amount fits this cluster's tolerance band,
// measured against the running mean. The band guards against merging a
// recurring charge with an unrelated one-off sharing a description substring.
func (c *Cluster) accepts(txn *models.Transaction) bool {
	mean := c.MeanAmount()
	tolerance := mean.Abs().Mul(amountToleranceRatio)
	if tolerance.LessThan(amountToleranceAbsolute) {
		tolerance = amountToleranceAbsolute
	}
	return txn.Amount.Sub(mean).Abs().LessThanOrEqual(tolerance)
}

// patternGrouper implements PatternGrouperInterface
type patternGrouper struct{}

// NewPatternGrouper creates a new pattern grouper
func NewPatternGrouper() PatternGrouperInterface {
	return &patternGrouper{}
}

// Group normalizes descriptions and groups transactions into candidate
// recurrence clusters by (account, normalized description, approximate
// amount). Transfers are excluded up front and clusters with fewer than
// MinOccurrences distinct days are dropped.
func (g *patternGrouper) Group(transactions []models.Transaction) []Cluster {
	type groupKey struct {
		accountID             uuid.UUID
		normalizedDescription string
	}

	// Deterministic input order keeps first-fit cluster assignment stable
	// across runs over the same data.
	ordered := make([]models.Transaction, 0, len(transactions))
	for i := range transactions {
		if transactions[i].IsTransfer() {
			continue
		}
		ordered = append(ordered, transactions[i])
	}
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].TransactionDate.Equal(ordered[j].TransactionDate) {
			return ordered[i].TransactionDate.Before(ordered[j].TransactionDate)
		}
		return ordered[i].ID.String() < ordered[j].ID.String()
	})

	groups := make(map[groupKey][]*Cluster)
	var keys []groupKey

	for i := range ordered {
		txn := &ordered[i]

		normalized := NormalizeDescription(txn.Description)
		if normalized == "" {
			continue
		}

		key := groupKey{accountID: txn.AccountID, normalizedDescription: normalized}
		if _, exists := groups[key]; !exists {
			keys = append(keys, key)
		}

		var target *Cluster
		for _, cluster := range groups[key] {
			if cluster.accepts(txn) {
				target = cluster
				break
			}
		}
		if target == nil {
			target = &Cluster{
				AccountID:             txn.AccountID,
				NormalizedDescription: normalized,
				descriptionCounts:     make(map[string]int),
				categoryCounts:        make(map[string]int),
				occurrenceDays:        make(map[time.Time]struct{}),
			}
			groups[key] = append(groups[key], target)
		}
		target.add(txn)
	}

	var clusters []Cluster
	for _, key := range keys {
		for _, cluster := range groups[key] {
			if len(cluster.Occurrences) < MinOccurrences {
				continue
			}
			sort.Slice(cluster.Occurrences, func(i, j int) bool {
				return cluster.Occurrences[i].Before(cluster.Occurrences[j])
			})
			clusters = append(clusters, *cluster)
		}
	}

	return clusters
}

// NormalizeDescription lowercases a raw transaction description and strips the
// parts that vary between occurrences of the same recurring charge: reference
// tokens ("#4471"), date-like tokens, and remaining digit runs. Whitespace is
// collapsed. The aggressiveness here is a starting heuristic tuned against
// household samples rather than a fixed rule.
func NormalizeDescription(raw string) string {
	s := strings.ToLower(raw)
	s = referencePattern.ReplaceAllString(s, " ")
	s = dateLikePattern.ReplaceAllString(s, " ")
	s = digitPattern.ReplaceAllString(s, "")

	fields := strings.Fields(s)
	kept := fields[:0]
	for _, field := range fields {
		field = strings.Trim(field, "*-_.:,;/\\")
		if field != "" {
			kept = append(kept, field)
		}
	}
	return strings.Join(kept, " ")
}
