package utils

import (
	"errors"
	"fmt"
	"net/http"

	"insuranceapi/models"
	"insuranceapi/pkg/reminder"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Error codes returned in the "error" field of failed responses.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppError is an error that knows its HTTP status.
type AppError struct {
	Status  int
	Code    string
	Message string
	Field   string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(field, message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: CodeValidation, Field: field, Message: message}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{Status: http.StatusNotFound, Code: CodeNotFound, Message: resource + " not found"}
}

func NewConflictError(message string) *AppError {
	return &AppError{Status: http.StatusConflict, Code: CodeConflict, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return &AppError{Status: http.StatusUnauthorized, Code: CodeUnauthorized, Message: message}
}

func NewForbiddenError(message string) *AppError {
	if message == "" {
		message = "permission denied"
	}
	return &AppError{Status: http.StatusForbidden, Code: CodeForbidden, Message: message}
}

func NewInternalError(err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "internal server error", Err: err}
}

// ToAppError classifies err. Unknown errors become 500.
func ToAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var fieldErr *models.FieldError
	if errors.As(err, &fieldErr) {
		return NewValidationError(fieldErr.Field, fieldErr.Error())
	}

	var windowErr *reminder.ValidationError
	if errors.As(err, &windowErr) {
		return NewValidationError(windowErr.Field, windowErr.Error())
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		first := validationErrs[0]
		return NewValidationError(first.Field(), describeValidation(first))
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NewNotFoundError("record")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return NewConflictError("record already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return NewValidationError("", "referenced record does not exist")
	}

	return NewInternalError(err)
}

func describeValidation(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "phone":
		return fmt.Sprintf("%s must be a 10 digit mobile number", fe.Field())
	case "aadhar":
		return fmt.Sprintf("%s must be 12 digits", fe.Field())
	case "pan":
		return fmt.Sprintf("%s must look like ABCDE1234F", fe.Field())
	case "gstin":
		return fmt.Sprintf("%s must be a 15 character GSTIN", fe.Field())
	case "pincode":
		return fmt.Sprintf("%s must be 6 digits", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
