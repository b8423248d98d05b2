// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies an AppError
type ErrorType string

const (
	// ErrorTypeValidation covers rejected input: bad uploads, empty pastes,
	// missing prerequisites and unreachable stages.
	ErrorTypeValidation ErrorType = "validation_error"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeConflict   ErrorType = "conflict"
	// ErrorTypeService covers generator transport and provider failures.
	ErrorTypeService ErrorType = "service_error"
	// ErrorTypeUnavailable means no generator is configured.
	ErrorTypeUnavailable ErrorType = "service_unavailable"
)

// AppError is the application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
	Code    string // stable, user-facing error code
}

// Error implements error
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError
func NewAppError(errType ErrorType, message string, originalError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     originalError,
		Code:    generateErrorCode(errType),
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeValidation, message, originalError)
}

// NewNotFoundError creates a not-found error
func NewNotFoundError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeNotFound, message, originalError)
}

// NewConflictError creates a conflict error
func NewConflictError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeConflict, message, originalError)
}

// NewServiceError creates a generator/service error
func NewServiceError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeService, message, originalError)
}

// NewUnavailableError creates a service-unavailable error
func NewUnavailableError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeUnavailable, message, originalError)
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or "".
func TypeOf(err error) ErrorType {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError.Type
	}
	return ""
}

// IsValidationError reports whether err is a validation error
func IsValidationError(err error) bool {
	return TypeOf(err) == ErrorTypeValidation
}

// IsNotFoundError reports whether err is a not-found error
func IsNotFoundError(err error) bool {
	return TypeOf(err) == ErrorTypeNotFound
}

// IsConflictError reports whether err is a conflict error
func IsConflictError(err error) bool {
	return TypeOf(err) == ErrorTypeConflict
}

// IsServiceError reports whether err is a service error
func IsServiceError(err error) bool {
	return TypeOf(err) == ErrorTypeService
}

// IsUnavailableError reports whether err is a service-unavailable error
func IsUnavailableError(err error) bool {
	return TypeOf(err) == ErrorTypeUnavailable
}

func generateErrorCode(errType ErrorType) string {
	switch errType {
	case ErrorTypeValidation:
		return "VALIDATION_ERROR"
	case ErrorTypeNotFound:
		return "NOT_FOUND"
	case ErrorTypeConflict:
		return "CONFLICT"
	case ErrorTypeService:
		return "SERVICE_ERROR"
	case ErrorTypeUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		return "UNKNOWN_ERROR"
	}
}

// WrapError wraps err, keeping the type of an AppError already in the chain.
func WrapError(err error, message string, errType ErrorType) error {
	if err == nil {
		return nil
	}

	var appError *AppError
	if errors.As(err, &appError) {
		return &AppError{
			Type:    appError.Type,
			Message: fmt.Sprintf("%s: %s", message, appError.Message),
			Err:     appError,
			Code:    appError.Code,
		}
	}

	return NewAppError(errType, message, err)
}
