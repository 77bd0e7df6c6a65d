package repositories

import (
	"homefinance/internal/models"

	"github.com/google/uuid"
)

// TransactionRepositoryInterface defines the contract for transaction repository operations.
// GetForRecurringDetection is the transaction feed consumed by the recurring
// pattern detector: it must return the complete (non-deleted) history for the
// requested accounts with no pagination truncation, since interval analysis
// degrades silently on a windowed feed.
type TransactionRepositoryInterface interface {
	Create(transaction *models.Transaction) error
	CreateBatch(transactions []models.Transaction) error
	GetByID(id uuid.UUID) (*models.Transaction, error)
	GetForRecurringDetection(accountIDs []uuid.UUID) ([]models.Transaction, error)
	CountByAccountID(accountID uuid.UUID) (int64, error)
}
