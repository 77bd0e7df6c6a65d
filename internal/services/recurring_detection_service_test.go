package services

import (
	"errors"
	"testing"
	"time"

	"homefinance/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyTransactionRepository serves a fixed transaction set and counts feed
// calls, so tests can prove whether a result came from cache or recomputation
type spyTransactionRepository struct {
	transactions []models.Transaction
	err          error
	fetchCalls   int
}

func (r *spyTransactionRepository) Create(transaction *models.Transaction) error      { return nil }
func (r *spyTransactionRepository) CreateBatch(transactions []models.Transaction) error { return nil }
func (r *spyTransactionRepository) GetByID(id uuid.UUID) (*models.Transaction, error) {
	return nil, nil
}
func (r *spyTransactionRepository) CountByAccountID(accountID uuid.UUID) (int64, error) {
	return int64(len(r.transactions)), nil
}

func (r *spyTransactionRepository) GetForRecurringDetection(accountIDs []uuid.UUID) ([]models.Transaction, error) {
	r.fetchCalls++
	if r.err != nil {
		return nil, r.err
	}
	if len(accountIDs) == 0 {
		return r.transactions, nil
	}

	wanted := make(map[uuid.UUID]struct{}, len(accountIDs))
	for _, id := range accountIDs {
		wanted[id] = struct{}{}
	}
	var scoped []models.Transaction
	for _, txn := range r.transactions {
		if _, ok := wanted[txn.AccountID]; ok {
			scoped = append(scoped, txn)
		}
	}
	return scoped, nil
}

func newTestDetectionService(repo *spyTransactionRepository) RecurringDetectionServiceInterface {
	return NewRecurringDetectionService(repo, NewPatternCache(30*time.Second), nil)
}

func TestRecurringDetectionService_DetectsMonthlySubscription(t *testing.T) {
	accountID := uuid.New()
	repo := &spyTransactionRepository{transactions: []models.Transaction{
		expenseOn(accountID, "NETFLIX #001", -15.99, day(2026, time.January, 1)),
		expenseOn(accountID, "NETFLIX #002", -15.99, day(2026, time.February, 1)),
		expenseOn(accountID, "NETFLIX #003", -15.99, day(2026, time.March, 1)),
	}}
	service := newTestDetectionService(repo)

	patterns, err := service.GetPatterns(models.RecurringPatternFilters{})

	require.NoError(t, err)
	require.Len(t, patterns, 1)

	pattern := patterns[0]
	assert.Equal(t, accountID, pattern.AccountID)
	assert.Equal(t, models.FrequencyMonthly, pattern.Frequency)
	assert.Equal(t, models.ConfidenceLevelHigh, pattern.ConfidenceLevel)
	assert.Equal(t, 100, pattern.ConfidenceScore)
	assert.Equal(t, 3, pattern.OccurrenceCount)
	assert.True(t, pattern.AvgAmount.Equal(decimal.NewFromFloat(-15.99)))
	assert.Equal(t, "2026-03-01", pattern.LastOccurrenceDate.String())
	assert.Equal(t, "2026-04-01", pattern.NextExpectedDate.String())
	assert.NotEmpty(t, pattern.PatternID)
	assert.False(t, pattern.IsConfirmed)
	assert.False(t, pattern.IsRejected)
}

func TestRecurringDetectionService_RejectsUnstableAmounts(t *testing.T) {
	accountID := uuid.New()
	repo := &spyTransactionRepository{transactions: []models.Transaction{
		expenseOn(accountID, "MYSTERY SHOP", -50, day(2026, time.January, 5)),
		expenseOn(accountID, "MYSTERY SHOP", -53, day(2026, time.February, 4)),
		expenseOn(accountID, "MYSTERY SHOP", -200, day(2026, time.March, 6)),
	}}
	service := newTestDetectionService(repo)

	patterns, err := service.GetPatterns(models.RecurringPatternFilters{})

	require.NoError(t, err)
	assert.Empty(t, patterns)
}

func TestRecurringDetectionService_TwoOccurrencesIsNotAPattern(t *testing.T) {
	accountID := uuid.New()
	repo := &spyTransactionRepository{transactions: []models.Transaction{
		expenseOn(accountID, "HULU", -7.99, day(2026, time.January, 5)),
		expenseOn(accountID, "HULU", -7.99, day(2026, time.February, 5)),
	}}
	service := newTestDetectionService(repo)

	patterns, err := service.GetPatterns(models.RecurringPatternFilters{})

	require.NoError(t, err)
	assert.Empty(t, patterns)
}

func TestRecurringDetectionService_ExcludesTransfers(t *testing.T) {
	accountID := uuid.New()
	repo := &spyTransactionRepository{transactions: []models.Transaction{
		transferOn(accountID, "TRANSFER TO SAVINGS", -500, day(2026, time.January, 1)),
		transferOn(accountID, "TRANSFER TO SAVINGS", -500, day(2026, time.February, 1)),
		transferOn(accountID, "TRANSFER TO SAVINGS", -500, day(2026, time.March, 1)),
	}}
	service := newTestDetectionService(repo)

	patterns, err := service.GetPatterns(models.RecurringPatternFilters{})

	require.NoError(t, err)
	assert.Empty(t, patterns)
}

func TestRecurringDetectionService_SortsByConfidenceThenOccurrences(t *testing.T) {
	accountID := uuid.New()

	// Perfectly regular subscription plus a wobblier utility bill.
	transactions := monthlySeries(accountID, "NETFLIX", -15.99, day(2026, time.January, 1), 4)
	transactions = append(transactions,
		expenseOn(accountID, "CITY POWER", -98, day(2026, time.January, 10)),
		expenseOn(accountID, "CITY POWER", -102, day(2026, time.February, 12)),
		expenseOn(accountID, "CITY POWER", -100, day(2026, time.March, 10)),
	)
	repo := &spyTransactionRepository{transactions: transactions}
	service := newTestDetectionService(repo)

	patterns, err := service.GetPatterns(models.RecurringPatternFilters{})

	require.NoError(t, err)
	require.Len(t, patterns, 2)
	assert.Equal(t, "NETFLIX", patterns[0].DescriptionPattern)
	assert.GreaterOrEqual(t, patterns[0].ConfidenceScore, patterns[1].ConfidenceScore)
}

func TestRecurringDetectionService_ScopesToRequestedAccounts(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	transactions := append(
		monthlySeries(first, "NETFLIX", -15.99, day(2026, time.January, 1), 3),
		monthlySeries(second, "SPOTIFY", -10.99, day(2026, time.January, 8), 3)...,
	)
	repo := &spyTransactionRepository{transactions: transactions}
	service := newTestDetectionService(repo)

	patterns, err := service.GetPatterns(models.RecurringPatternFilters{AccountIDs: []uuid.UUID{first}})

	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, first, patterns[0].AccountID)
}

func TestRecurringDetectionService_FiltersByConfidenceLevel(t *testing.T) {
	accountID := uuid.New()
	repo := &spyTransactionRepository{transactions: monthlySeries(accountID, "NETFLIX", -15.99, day(2026, time.January, 1), 3)}
	service := newTestDetectionService(repo)

	high := models.ConfidenceLevelHigh
	patterns, err := service.GetPatterns(models.RecurringPatternFilters{ConfidenceLevel: &high})
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, models.ConfidenceLevelHigh, patterns[0].ConfidenceLevel)

	low := models.ConfidenceLevelLow
	patterns, err = service.GetPatterns(models.RecurringPatternFilters{ConfidenceLevel: &low})
	require.NoError(t, err)
	assert.Empty(t, patterns)
}

func TestRecurringDetectionService_FiltersByFrequency(t *testing.T) {
	accountID := uuid.New()
	transactions := append(
		monthlySeries(accountID, "NETFLIX", -15.99, day(2026, time.January, 1), 3),
		expenseOn(accountID, "CLEANING SERVICE", -120, day(2026, time.January, 2)),
		expenseOn(accountID, "CLEANING SERVICE", -120, day(2026, time.January, 16)),
		expenseOn(accountID, "CLEANING SERVICE", -120, day(2026, time.January, 30)),
	)
	repo := &spyTransactionRepository{transactions: transactions}
	service := newTestDetectionService(repo)

	biweekly := models.FrequencyBiweekly
	patterns, err := service.GetPatterns(models.RecurringPatternFilters{Frequency: &biweekly})

	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, models.FrequencyBiweekly, patterns[0].Frequency)
}

func TestRecurringDetectionService_ServesRepeatCallsFromCache(t *testing.T) {
	accountID := uuid.New()
	repo := &spyTransactionRepository{transactions: monthlySeries(accountID, "NETFLIX", -15.99, day(2026, time.January, 1), 3)}
	service := newTestDetectionService(repo)

	first, err := service.GetPatterns(models.RecurringPatternFilters{})
	require.NoError(t, err)
	second, err := service.GetPatterns(models.RecurringPatternFilters{})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.fetchCalls, "second call should be a cache hit")
	assert.Equal(t, first, second)
}

func TestRecurringDetectionService_DifferentFiltersDoNotShareCacheEntries(t *testing.T) {
	accountID := uuid.New()
	repo := &spyTransactionRepository{transactions: monthlySeries(accountID, "NETFLIX", -15.99, day(2026, time.January, 1), 3)}
	service := newTestDetectionService(repo)

	_, err := service.GetPatterns(models.RecurringPatternFilters{})
	require.NoError(t, err)

	high := models.ConfidenceLevelHigh
	_, err = service.GetPatterns(models.RecurringPatternFilters{ConfidenceLevel: &high})
	require.NoError(t, err)

	assert.Equal(t, 2, repo.fetchCalls)
}

func TestRecurringDetectionService_ResetForcesRecompute(t *testing.T) {
	accountID := uuid.New()
	repo := &spyTransactionRepository{transactions: monthlySeries(accountID, "NETFLIX", -15.99, day(2026, time.January, 1), 3)}
	service := newTestDetectionService(repo)

	_, err := service.GetPatterns(models.RecurringPatternFilters{})
	require.NoError(t, err)
	require.Equal(t, 1, repo.fetchCalls)

	service.ResetPatternState()

	_, err = service.GetPatterns(models.RecurringPatternFilters{})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.fetchCalls, "reset must force the next call back to the feed")
}

func TestRecurringDetectionService_PropagatesFeedErrors(t *testing.T) {
	feedErr := errors.New("connection refused")
	repo := &spyTransactionRepository{err: feedErr}
	service := newTestDetectionService(repo)

	patterns, err := service.GetPatterns(models.RecurringPatternFilters{})

	require.Error(t, err)
	assert.ErrorIs(t, err, feedErr)
	assert.Nil(t, patterns)
}

func TestRecurringDetectionService_DeterministicAcrossRuns(t *testing.T) {
	accountID := uuid.New()
	transactions := append(
		monthlySeries(accountID, "NETFLIX", -15.99, day(2026, time.January, 1), 3),
		monthlySeries(accountID, "SPOTIFY", -10.99, day(2026, time.January, 8), 3)...,
	)
	repo := &spyTransactionRepository{transactions: transactions}

	service := newTestDetectionService(repo)
	first, err := service.GetPatterns(models.RecurringPatternFilters{})
	require.NoError(t, err)

	rebuilt := newTestDetectionService(repo)
	second, err := rebuilt.GetPatterns(models.RecurringPatternFilters{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPatternID_StableAndDistinct(t *testing.T) {
	accountID := uuid.New().String()

	assert.Equal(t, PatternID(accountID, "netflix"), PatternID(accountID, "netflix"))
	assert.NotEqual(t, PatternID(accountID, "netflix"), PatternID(accountID, "spotify"))
	assert.NotEqual(t, PatternID(accountID, "netflix"), PatternID(uuid.New().String(), "netflix"))
	assert.Len(t, PatternID(accountID, "netflix"), 16)
}
