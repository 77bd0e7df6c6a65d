package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator adapts go-playground/validator to echo.Validator so Bind
// targets can declare their constraints as struct tags.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates the validator used by the echo instance.
func NewValidator() echo.Validator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator. Validation failures surface as
// validator.ValidationErrors and are translated by the HTTP error handler.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
