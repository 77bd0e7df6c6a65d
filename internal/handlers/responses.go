package handlers

import (
	"net/http"

	"homefinance/internal/errors"

	"github.com/labstack/echo/v4"
)

// Handlers never return raw errors or echo.NewHTTPError to the client.
// Client and business failures go through SendError with a code from the
// internal/errors catalogue; infrastructure failures go through
// SendSystemError, which logs the cause and answers with a generic 500 so
// database details never reach the response body.

// TraceIDContextKey is where the request-ID middleware stores the trace ID.
const TraceIDContextKey = "trace_id"

// SuccessResponse is the envelope for successful responses.
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// ErrorResponse aliases the standardized error envelope for handler tests.
type ErrorResponse = errors.ErrorResponse

func getTraceID(c echo.Context) string {
	if traceID, ok := c.Get(TraceIDContextKey).(string); ok {
		return traceID
	}
	return ""
}

// SendError answers with the catalogue response for the given code.
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	response := errors.NewErrorResponse(code, getTraceID(c), opts...)
	return c.JSON(response.GetHTTPStatus(), response)
}

// SendSystemError logs the underlying error and answers with a generic 500.
func SendSystemError(c echo.Context, err error) error {
	response, _ := errors.WrapSystemError(err, getTraceID(c))
	return c.JSON(http.StatusInternalServerError, response)
}
