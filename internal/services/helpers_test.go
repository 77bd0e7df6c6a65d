package services

import (
	"time"

	"homefinance/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func expenseOn(accountID uuid.UUID, description string, amount float64, date time.Time) models.Transaction {
	return models.Transaction{
		ID:              uuid.New(),
		TransactionDate: date,
		AccountID:       accountID,
		Description:     description,
		Category:        "Entertainment",
		Amount:          decimal.NewFromFloat(amount),
		TransactionType: models.TransactionTypeExpense,
	}
}

func transferOn(accountID uuid.UUID, description string, amount float64, date time.Time) models.Transaction {
	return models.Transaction{
		ID:              uuid.New(),
		TransactionDate: date,
		AccountID:       accountID,
		Description:     description,
		Amount:          decimal.NewFromFloat(amount),
		TransactionType: models.TransactionTypeTransfer,
	}
}

// monthlySeries builds count transactions one calendar month apart starting at first
func monthlySeries(accountID uuid.UUID, description string, amount float64, first time.Time, count int) []models.Transaction {
	transactions := make([]models.Transaction, 0, count)
	date := first
	for i := 0; i < count; i++ {
		transactions = append(transactions, expenseOn(accountID, description, amount, date))
		date = addCalendarMonth(date)
	}
	return transactions
}

func clusterOf(transactions ...models.Transaction) Cluster {
	cluster := Cluster{
		AccountID:             transactions[0].AccountID,
		NormalizedDescription: NormalizeDescription(transactions[0].Description),
		descriptionCounts:     make(map[string]int),
		categoryCounts:        make(map[string]int),
		occurrenceDays:        make(map[time.Time]struct{}),
	}
	for i := range transactions {
		cluster.add(&transactions[i])
	}
	return cluster
}
