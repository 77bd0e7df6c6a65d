package handlers

import (
	"net/http"
	"time"

	"homefinance/internal/dto"
	"homefinance/internal/errors"
	"homefinance/internal/repositories"
	"homefinance/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// DevHandler handles development-only endpoints
// These endpoints should only be available in development environments
type DevHandler struct {
	transactionRepo  repositories.TransactionRepositoryInterface
	detectionService services.RecurringDetectionServiceInterface
	enabled          bool
}

// NewDevHandler creates a new development handler. When enabled is false the
// endpoints respond as if they do not exist.
func NewDevHandler(
	transactionRepo repositories.TransactionRepositoryInterface,
	detectionService services.RecurringDetectionServiceInterface,
	enabled bool,
) *DevHandler {
	return &DevHandler{
		transactionRepo:  transactionRepo,
		detectionService: detectionService,
		enabled:          enabled,
	}
}

// SeedTransactions generates a realistic multi-month transaction history with
// embedded recurring obligations
//
// Method: POST /dev/seed
// Environment: Development only
//
// Query parameters:
//   - account_id: target account UUID (default: a fresh random account)
//   - months: months of history to generate (default: 6, max: 36)
//   - seed: randomness seed for reproducible fixtures (default: entropy)
func (h *DevHandler) SeedTransactions(c echo.Context) error {
	if !h.enabled {
		return SendError(c, errors.SystemEndpointDisabled)
	}

	var req dto.SeedRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("failed to parse query parameters"))
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	accountID := uuid.New()
	if req.AccountID != "" {
		parsed, err := uuid.Parse(req.AccountID)
		if err != nil {
			return SendError(c, errors.ValidationInvalidUUID)
		}
		accountID = parsed
	}

	months := req.Months
	if months < 1 {
		months = 6
	}

	generator := services.NewTransactionGenerator(req.Seed)
	transactions := generator.GenerateRecurringHistory(accountID, time.Now().UTC(), months)

	if err := h.transactionRepo.CreateBatch(transactions); err != nil {
		return SendSystemError(c, err)
	}

	// Seeding changes the history every cached result was computed from.
	h.detectionService.ResetPatternState()

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "test data generated successfully",
		Data: dto.SeedResponse{
			AccountID:           accountID.String(),
			TransactionsCreated: len(transactions),
			Months:              months,
		},
	})
}

// ResetPatternCache clears all cached detection results
//
// Method: POST /dev/reset-pattern-cache
// Environment: Development only
func (h *DevHandler) ResetPatternCache(c echo.Context) error {
	if !h.enabled {
		return SendError(c, errors.SystemEndpointDisabled)
	}

	h.detectionService.ResetPatternState()

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "pattern cache reset",
	})
}
