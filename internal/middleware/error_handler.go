package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"homefinance/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var apiErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "api_errors_total",
		Help: "Total number of API errors by code, endpoint, and status",
	},
	[]string{"code", "endpoint", "status"},
)

// CustomHTTPErrorHandler turns every error echo sees into the standardized
// envelope: echo.HTTPError keeps its status, validator failures become
// VALIDATION_001 with per-field details, anything else is a sanitized 500.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	traceID := GetTraceID(c)
	if traceID == "" {
		traceID = "unknown"
	}

	response, status := classifyError(err, traceID)

	level := slog.LevelWarn
	if status >= 500 {
		level = slog.LevelError
	}
	slog.Log(c.Request().Context(), level, "request failed",
		"trace_id", traceID,
		"error_code", response.Error.Code,
		"status", status,
		"method", c.Request().Method,
		"path", c.Request().URL.Path,
		"error", err.Error(),
	)

	apiErrorsTotal.WithLabelValues(response.Error.Code, c.Path(), strconv.Itoa(status)).Inc()

	if sendErr := c.JSON(status, response); sendErr != nil {
		slog.Error("failed to write error response", "trace_id", traceID, "error", sendErr)
	}
}

func classifyError(err error, traceID string) (*errors.ErrorResponse, int) {
	switch e := err.(type) {
	case *echo.HTTPError:
		code := errorCodeForStatus(e.Code)
		response := errors.NewErrorResponse(code, traceID,
			errors.WithMessage(fmt.Sprintf("%v", e.Message)))
		return response, e.Code

	case validator.ValidationErrors:
		details := make([]string, 0, len(e))
		for _, fieldErr := range e {
			details = append(details, fieldErr.Field()+": "+validationMessage(fieldErr))
		}
		return errors.NewValidationErrorFromList(details, traceID), http.StatusBadRequest

	default:
		response, _ := errors.WrapSystemError(err, traceID)
		return response, response.GetHTTPStatus()
	}
}

func errorCodeForStatus(status int) errors.ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusMethodNotAllowed, http.StatusUnprocessableEntity:
		return errors.ValidationGeneral
	case http.StatusNotFound:
		return errors.TransactionNotFound
	case http.StatusTooManyRequests:
		return errors.SystemRateLimitExceeded
	case http.StatusInternalServerError:
		return errors.SystemInternalError
	case http.StatusServiceUnavailable:
		return errors.SystemServiceUnavailable
	default:
		return errors.SystemUnexpectedError
	}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "numeric":
		return "must be a valid number"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "confidence_level":
		return "must be a valid confidence level (High, Medium, Low)"
	case "frequency":
		return "must be a valid frequency (Weekly, Biweekly, Monthly)"
	case "transaction_type":
		return "must be a valid transaction type (Income, Expense, Transfer)"
	default:
		return fmt.Sprintf("failed validation for '%s'", fe.Tag())
	}
}
