package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TransactionTypeIncome   = "Income"
	TransactionTypeExpense  = "Expense"
	TransactionTypeTransfer = "Transfer"
)

var (
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrAmountSignMismatch     = errors.New("transaction amount sign does not match transaction type")
)

// Transaction represents a single household transaction from the imported
// transaction history. Rows are read-only as far as the analytics subsystem
// is concerned; the recurring detector never mutates them.
type Transaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TransactionDate time.Time       `gorm:"not null;index" json:"transaction_date"`
	AccountID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"account_id"`
	AccountName     string          `gorm:"type:varchar(100)" json:"account_name,omitempty"`
	AccountType     string          `gorm:"type:varchar(50)" json:"account_type,omitempty"`
	AccountOwner    string          `gorm:"type:varchar(100)" json:"account_owner,omitempty"`
	Description     string          `gorm:"type:text;not null" json:"description"`
	Category        string          `gorm:"type:varchar(50);index" json:"category,omitempty"`
	Subcategory     string          `gorm:"type:varchar(50)" json:"subcategory,omitempty"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	TransactionType string          `gorm:"type:varchar(20);not null;index" json:"transaction_type"`
	BalanceAfter    *decimal.Decimal `gorm:"type:decimal(15,2)" json:"balance_after,omitempty"`
	Notes           string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate hook for Transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	return t.Validate()
}

// Validate validates the transaction fields
func (t *Transaction) Validate() error {
	if t.AccountID == uuid.Nil {
		return errors.New("account ID is required")
	}

	if t.Description == "" {
		return errors.New("transaction description is required")
	}

	if t.TransactionDate.IsZero() {
		return errors.New("transaction date is required")
	}

	if !IsValidTransactionType(t.TransactionType) {
		return ErrInvalidTransactionType
	}

	// Sign convention: expenses are stored negative, income positive.
	// Transfers carry either sign depending on direction.
	switch t.TransactionType {
	case TransactionTypeExpense:
		if t.Amount.IsPositive() {
			return ErrAmountSignMismatch
		}
	case TransactionTypeIncome:
		if t.Amount.IsNegative() {
			return ErrAmountSignMismatch
		}
	}

	return nil
}

// IsTransfer returns true for transfers between the household's own accounts.
// Transfers are excluded from recurrence detection.
func (t *Transaction) IsTransfer() bool {
	return t.TransactionType == TransactionTypeTransfer
}

// OccurrenceDay returns the transaction date truncated to a calendar day in UTC.
// Same-day duplicates collapse to a single occurrence for interval analysis.
func (t *Transaction) OccurrenceDay() time.Time {
	d := t.TransactionDate.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// TableName returns the table name for Transaction
func (t *Transaction) TableName() string {
	return "transactions"
}

// IsValidTransactionType checks if the transaction type is valid
func IsValidTransactionType(transactionType string) bool {
	switch transactionType {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer:
		return true
	default:
		return false
	}
}
