package dto

import (
	"homefinance/internal/models"
)

// RecurringPatternQuery contains the query parameters accepted by the
// recurring transactions endpoint. All filters are optional; account_id takes
// a comma-separated list of account UUIDs.
type RecurringPatternQuery struct {
	AccountID       string `query:"account_id" validate:"omitempty,max=2048"`
	ConfidenceLevel string `query:"confidence_level" validate:"omitempty,max=20"`
	Frequency       string `query:"frequency" validate:"omitempty,max=20"`
}

// RecurringPatternsResponse is the payload of the recurring transactions endpoint
type RecurringPatternsResponse struct {
	RecurringTransactions []models.RecurringPattern `json:"recurring_transactions"`
}

// SeedRequest contains the query parameters for the dev seeding endpoint
type SeedRequest struct {
	// AccountID is parsed by the handler so a bad value maps to the
	// catalogue's invalid-UUID code.
	AccountID string `query:"account_id" validate:"omitempty,max=64"`
	Months    int    `query:"months" validate:"omitempty,min=1,max=36"`
	Seed      uint64 `query:"seed"`
}

// SeedResponse reports what the dev seeding endpoint created
type SeedResponse struct {
	AccountID           string `json:"account_id"`
	TransactionsCreated int    `json:"transactions_created"`
	Months              int    `json:"months"`
}
