package repositories

import (
	"errors"
	"fmt"

	"homefinance/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
)

// transactionRepository implements TransactionRepositoryInterface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new transaction
func (r *transactionRepository) Create(transaction *models.Transaction) error {
	if err := r.db.Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// CreateBatch creates multiple transactions in a single database transaction
func (r *transactionRepository) CreateBatch(transactions []models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&transactions).Error; err != nil {
			return fmt.Errorf("failed to create batch transactions: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a transaction by ID
func (r *transactionRepository) GetByID(id uuid.UUID) (*models.Transaction, error) {
	transaction := &models.Transaction{ID: id}
	if err := r.db.First(transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return transaction, nil
}

// GetForRecurringDetection retrieves the full non-deleted transaction history
// for the given accounts, ordered by transaction date ascending. An empty
// accountIDs slice means all accounts. No pagination: the detector needs the
// complete history per cluster to compute reliable intervals.
func (r *transactionRepository) GetForRecurringDetection(accountIDs []uuid.UUID) ([]models.Transaction, error) {
	var transactions []models.Transaction

	query := r.db.Model(&models.Transaction{})
	if len(accountIDs) > 0 {
		query = query.Where("account_id IN ?", accountIDs)
	}

	if err := query.
		Order("transaction_date ASC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions for recurring detection: %w", err)
	}

	return transactions, nil
}

// CountByAccountID returns the number of non-deleted transactions for an account
func (r *transactionRepository) CountByAccountID(accountID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Transaction{}).
		Where("account_id = ?", accountID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}
