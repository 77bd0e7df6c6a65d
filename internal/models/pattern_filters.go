package models

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// RecurringPatternFilters contains filtering options for recurring pattern
// queries. AccountIDs scopes the transaction fetch; ConfidenceLevel and
// Frequency are post-filters applied after detection so the detector always
// sees the full history when computing intervals.
type RecurringPatternFilters struct {
	AccountIDs      []uuid.UUID
	ConfidenceLevel *ConfidenceLevel
	Frequency       *Frequency
}

// CanonicalKey folds the filters into a stable cache key. Account IDs are
// sorted and enum values lowercased so semantically equal filter combinations
// always produce the same key.
func (f RecurringPatternFilters) CanonicalKey() string {
	accountIDs := make([]string, 0, len(f.AccountIDs))
	for _, id := range f.AccountIDs {
		accountIDs = append(accountIDs, strings.ToLower(id.String()))
	}
	sort.Strings(accountIDs)

	level := ""
	if f.ConfidenceLevel != nil {
		level = strings.ToLower(string(*f.ConfidenceLevel))
	}

	frequency := ""
	if f.Frequency != nil {
		frequency = strings.ToLower(string(*f.Frequency))
	}

	var b strings.Builder
	b.WriteString("accounts=")
	b.WriteString(strings.Join(accountIDs, ","))
	b.WriteString("|level=")
	b.WriteString(level)
	b.WriteString("|frequency=")
	b.WriteString(frequency)
	return b.String()
}
