package errors

import (
	"errors"
	"fmt"

	"go-vision-tools/pkg/models"
)

// AppError is a structured application error carrying one of the stable
// error codes reported to callers.
type AppError struct {
	Code    models.ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates an error for malformed or missing parameters.
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Code:    models.ErrorCodeInvalidRequest,
		Message: message,
		Cause:   cause,
	}
}

// NewModelLoadError creates an error for a vision model that could not be
// loaded or initialized.
func NewModelLoadError(message string, cause error) *AppError {
	return &AppError{
		Code:    models.ErrorCodeModelLoad,
		Message: message,
		Cause:   cause,
	}
}

// NewImageProcessingError creates an error for an image that could not be
// fetched, decoded, or processed.
func NewImageProcessingError(message string, cause error) *AppError {
	return &AppError{
		Code:    models.ErrorCodeImageProcessing,
		Message: message,
		Cause:   cause,
	}
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code models.ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Classify maps any failure to stable error information. Classified errors
// keep their code; everything else is folded into INVALID_REQUEST, matching
// the catch-all behavior of the tool contract.
func Classify(err error) models.ErrorInfo {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return models.ErrorInfo{Code: appErr.Code, Message: appErr.Message}
	}
	return models.ErrorInfo{Code: models.ErrorCodeInvalidRequest, Message: err.Error()}
}
