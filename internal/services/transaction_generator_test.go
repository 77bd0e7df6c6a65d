package services

import (
	"testing"
	"time"

	"homefinance/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionGenerator_MonthlySubscription(t *testing.T) {
	accountID := uuid.New()
	generator := NewTransactionGenerator(1)

	transactions := generator.GenerateMonthlySubscription(
		accountID, "Netflix", decimal.NewFromFloat(-15.99), day(2026, time.January, 4), 6)

	require.Len(t, transactions, 6)
	for i, txn := range transactions {
		assert.Equal(t, accountID, txn.AccountID)
		assert.Equal(t, models.TransactionTypeExpense, txn.TransactionType)
		assert.True(t, txn.Amount.Equal(decimal.NewFromFloat(-15.99)))
		assert.NoError(t, txn.Validate())
		if i > 0 {
			assert.Equal(t, addCalendarMonth(transactions[i-1].TransactionDate), txn.TransactionDate)
		}
	}
}

func TestTransactionGenerator_BiweeklyPayroll(t *testing.T) {
	accountID := uuid.New()
	generator := NewTransactionGenerator(1)
	base := decimal.NewFromFloat(2400)

	transactions := generator.GenerateBiweeklyPayroll(accountID, "Initech", base, day(2026, time.January, 2), 6)

	require.Len(t, transactions, 6)
	for i, txn := range transactions {
		assert.Equal(t, models.TransactionTypeIncome, txn.TransactionType)
		assert.True(t, txn.Amount.IsPositive())
		assert.NoError(t, txn.Validate())

		// Jitter stays inside the clustering tolerance around the base pay.
		drift := txn.Amount.Sub(base).Abs()
		assert.True(t, drift.LessThanOrEqual(base.Mul(decimal.NewFromFloat(0.05))))

		if i > 0 {
			gap := txn.TransactionDate.Sub(transactions[i-1].TransactionDate)
			assert.Equal(t, 14*24*time.Hour, gap)
		}
	}
}

func TestTransactionGenerator_NoiseStaysInsideWindow(t *testing.T) {
	accountID := uuid.New()
	generator := NewTransactionGenerator(1)
	start := day(2026, time.January, 1)

	transactions := generator.GenerateNoise(accountID, start, 90, 40)

	require.Len(t, transactions, 40)
	end := start.AddDate(0, 0, 90)
	for _, txn := range transactions {
		assert.False(t, txn.TransactionDate.Before(start))
		assert.True(t, txn.TransactionDate.Before(end))
		assert.NoError(t, txn.Validate())
	}
}

func TestTransactionGenerator_RecurringHistoryIsDetectable(t *testing.T) {
	accountID := uuid.New()
	generator := NewTransactionGenerator(42)

	transactions := generator.GenerateRecurringHistory(accountID, day(2026, time.June, 1), 6)
	require.NotEmpty(t, transactions)

	repo := &spyTransactionRepository{transactions: transactions}
	service := newTestDetectionService(repo)

	patterns, err := service.GetPatterns(models.RecurringPatternFilters{})
	require.NoError(t, err)

	// At minimum the rent and the two fixed-amount subscriptions come out.
	assert.GreaterOrEqual(t, len(patterns), 3)

	frequencies := make(map[models.Frequency]bool)
	for _, pattern := range patterns {
		frequencies[pattern.Frequency] = true
	}
	assert.True(t, frequencies[models.FrequencyMonthly])
}

func TestTransactionGenerator_SameSeedSameFixtures(t *testing.T) {
	accountID := uuid.New()

	first := NewTransactionGenerator(7).GenerateNoise(accountID, day(2026, time.January, 1), 30, 10)
	second := NewTransactionGenerator(7).GenerateNoise(accountID, day(2026, time.January, 1), 30, 10)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Description, second[i].Description)
		assert.True(t, first[i].Amount.Equal(second[i].Amount))
		assert.Equal(t, first[i].TransactionDate, second[i].TransactionDate)
	}
}
