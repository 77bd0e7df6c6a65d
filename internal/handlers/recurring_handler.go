package handlers

import (
	"net/http"
	"strings"

	"homefinance/internal/dto"
	"homefinance/internal/errors"
	"homefinance/internal/models"
	"homefinance/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RecurringHandler handles recurring pattern analytics endpoints
type RecurringHandler struct {
	detectionService services.RecurringDetectionServiceInterface
}

// NewRecurringHandler creates a new recurring analytics handler
func NewRecurringHandler(detectionService services.RecurringDetectionServiceInterface) *RecurringHandler {
	return &RecurringHandler{detectionService: detectionService}
}

// GetRecurringTransactions returns the recurring patterns detected in the
// household's transaction history
//
// Method: GET /analytics/recurring
//
// Query parameters:
//   - account_id: optional comma-separated list of account UUIDs
//   - confidence_level: optional exact-match filter (High, Medium, Low)
//   - frequency: optional exact-match filter (Weekly, Biweekly, Monthly)
//
// Success Response: 200 OK
//   - data.recurring_transactions: detected patterns ordered by confidence
//
// Error Responses:
//   - 400: Invalid filter value
//   - 500: Detection failure
func (h *RecurringHandler) GetRecurringTransactions(c echo.Context) error {
	var query dto.RecurringPatternQuery
	if err := c.Bind(&query); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("failed to parse query parameters"))
	}
	if err := c.Validate(&query); err != nil {
		return err
	}

	filters, errorCode, ok := buildPatternFilters(query)
	if !ok {
		return SendError(c, errorCode)
	}

	patterns, err := h.detectionService.GetPatterns(filters)
	if err != nil {
		return SendSystemError(c, err)
	}

	// Always serialize as an array, never null, so empty results stay
	// iterable on the client.
	if patterns == nil {
		patterns = []models.RecurringPattern{}
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: dto.RecurringPatternsResponse{RecurringTransactions: patterns},
	})
}

// buildPatternFilters converts raw query strings into typed filters, returning
// the error code for the first invalid value
func buildPatternFilters(query dto.RecurringPatternQuery) (models.RecurringPatternFilters, errors.ErrorCode, bool) {
	var filters models.RecurringPatternFilters

	if query.AccountID != "" {
		for _, raw := range strings.Split(query.AccountID, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			accountID, err := uuid.Parse(raw)
			if err != nil {
				return filters, errors.AnalyticsInvalidAccountFilter, false
			}
			filters.AccountIDs = append(filters.AccountIDs, accountID)
		}
	}

	if query.ConfidenceLevel != "" {
		level, err := models.ParseConfidenceLevel(query.ConfidenceLevel)
		if err != nil {
			return filters, errors.AnalyticsInvalidConfidenceLevel, false
		}
		filters.ConfidenceLevel = &level
	}

	if query.Frequency != "" {
		frequency, err := models.ParseFrequency(query.Frequency)
		if err != nil {
			return filters, errors.AnalyticsInvalidFrequency, false
		}
		filters.Frequency = &frequency
	}

	return filters, "", true
}
