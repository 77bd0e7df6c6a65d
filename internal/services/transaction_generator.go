package services

import (
	"fmt"
	"time"

	"homefinance/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// transactionGenerator produces realistic household transaction fixtures with
// recurring obligations embedded among one-off noise. Used by the development
// seeding endpoint and by tests that need multi-month histories.
type transactionGenerator struct {
	faker *gofakeit.Faker
}

// NewTransactionGenerator creates a generator with its own randomness source.
// Pass a fixed seed for reproducible fixtures; zero seeds from entropy.
func NewTransactionGenerator(seed uint64) TransactionGeneratorInterface {
	return &transactionGenerator{faker: gofakeit.New(seed)}
}

// GenerateRecurringHistory builds a history for one account ending at endDate
// and spanning the given number of months: a monthly rent payment, two
// subscriptions, a biweekly paycheck, and background noise.
func (g *transactionGenerator) GenerateRecurringHistory(accountID uuid.UUID, endDate time.Time, months int) []models.Transaction {
	if months < 1 {
		months = 1
	}
	start := endDate.AddDate(0, -months, 0)

	transactions := make([]models.Transaction, 0, months*20)

	transactions = append(transactions, g.generateMonthlyExpense(
		accountID, "City Properties Rent", "Housing", "Rent",
		decimal.NewFromInt(-1850), start, months+1)...)

	transactions = append(transactions, g.GenerateMonthlySubscription(
		accountID, "Netflix", decimal.NewFromFloat(-15.99), start.AddDate(0, 0, 4), months+1)...)
	transactions = append(transactions, g.GenerateMonthlySubscription(
		accountID, "Spotify", decimal.NewFromFloat(-10.99), start.AddDate(0, 0, 11), months+1)...)

	payPeriods := months*2 + 1
	transactions = append(transactions, g.GenerateBiweeklyPayroll(
		accountID, g.faker.Company(), decimal.NewFromFloat(2400), start.AddDate(0, 0, 2), payPeriods)...)

	days := months * 30
	transactions = append(transactions, g.GenerateNoise(accountID, start, days, months*8)...)

	return transactions
}

// GenerateMonthlySubscription emits one charge per calendar month starting at
// firstDate. Amounts are held exactly constant, the way card-on-file
// subscriptions bill.
func (g *transactionGenerator) GenerateMonthlySubscription(accountID uuid.UUID, merchant string, amount decimal.Decimal, firstDate time.Time, occurrences int) []models.Transaction {
	return g.generateMonthlyExpense(accountID, merchant, "Entertainment", "Streaming", amount, firstDate, occurrences)
}

func (g *transactionGenerator) generateMonthlyExpense(accountID uuid.UUID, merchant, category, subcategory string, amount decimal.Decimal, firstDate time.Time, occurrences int) []models.Transaction {
	transactions := make([]models.Transaction, 0, occurrences)
	date := firstDate
	for i := 0; i < occurrences; i++ {
		transactions = append(transactions, models.Transaction{
			ID:              uuid.New(),
			TransactionDate: date,
			AccountID:       accountID,
			Description:     fmt.Sprintf("%s #%d", merchant, g.faker.IntRange(100000, 999999)),
			Category:        category,
			Subcategory:     subcategory,
			Amount:          amount,
			TransactionType: models.TransactionTypeExpense,
		})
		date = addCalendarMonth(date)
	}
	return transactions
}

// GenerateBiweeklyPayroll emits a deposit every 14 days with slight overtime
// variation, still inside the amount tolerance of a single cluster.
func (g *transactionGenerator) GenerateBiweeklyPayroll(accountID uuid.UUID, employer string, amount decimal.Decimal, firstDate time.Time, occurrences int) []models.Transaction {
	transactions := make([]models.Transaction, 0, occurrences)
	for i := 0; i < occurrences; i++ {
		jitter := decimal.NewFromFloat(g.faker.Float64Range(-0.02, 0.02))
		pay := amount.Add(amount.Mul(jitter)).Round(2)
		transactions = append(transactions, models.Transaction{
			ID:              uuid.New(),
			TransactionDate: firstDate.AddDate(0, 0, 14*i),
			AccountID:       accountID,
			Description:     fmt.Sprintf("%s Payroll %s", employer, firstDate.AddDate(0, 0, 14*i).Format("01/02")),
			Category:        "Income",
			Subcategory:     "Salary",
			Amount:          pay,
			TransactionType: models.TransactionTypeIncome,
		})
	}
	return transactions
}

// GenerateNoise scatters one-off purchases across the window. Descriptions and
// dates vary enough that none of them form a cluster.
func (g *transactionGenerator) GenerateNoise(accountID uuid.UUID, startDate time.Time, days, count int) []models.Transaction {
	if days < 1 {
		days = 1
	}
	categories := []string{"Groceries", "Dining", "Shopping", "Transport", "Health"}

	transactions := make([]models.Transaction, 0, count)
	for i := 0; i < count; i++ {
		transactions = append(transactions, models.Transaction{
			ID:              uuid.New(),
			TransactionDate: startDate.AddDate(0, 0, g.faker.IntRange(0, days-1)),
			AccountID:       accountID,
			Description:     fmt.Sprintf("%s %s", g.faker.Company(), g.faker.City()),
			Category:        categories[g.faker.IntRange(0, len(categories)-1)],
			Amount:          decimal.NewFromFloat(-g.faker.Float64Range(3, 250)).Round(2),
			TransactionType: models.TransactionTypeExpense,
		})
	}
	return transactions
}
