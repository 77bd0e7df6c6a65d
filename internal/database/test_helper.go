package database

import (
	"testing"
	"time"

	"homefinance/internal/config"
	"homefinance/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), gormConfig)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	testDB := &DB{
		DB: db,
		config: &config.DatabaseConfig{
			MaxConnections: 1,
			MaxIdleConns:   1,
		},
	}

	if err := testDB.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return testDB
}

// CreateTestTransaction inserts an expense on the given account and date.
// Amounts follow the sign convention, so expenses must be negative.
func CreateTestTransaction(t *testing.T, db *DB, accountID uuid.UUID, description string, amount float64, date time.Time) *models.Transaction {
	t.Helper()

	transactionType := models.TransactionTypeExpense
	if amount >= 0 {
		transactionType = models.TransactionTypeIncome
	}

	txn := &models.Transaction{
		TransactionDate: date,
		AccountID:       accountID,
		Description:     description,
		Amount:          decimal.NewFromFloat(amount),
		TransactionType: transactionType,
	}

	if err := db.Create(txn).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}

	return txn
}

func CleanupTestDB(t *testing.T, db *DB) {
	t.Helper()

	if err := db.Exec("DELETE FROM transactions").Error; err != nil {
		t.Logf("failed to cleanup transactions table: %v", err)
	}
}
