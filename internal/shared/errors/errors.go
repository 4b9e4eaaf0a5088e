// Package errors provides application-level error types and utilities.
// It defines the error kinds the client surfaces: configuration,
// unauthenticated, network, HTTP, validation, parse, and realtime warnings.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeConfiguration   ErrorType = "configuration_error"
	ErrorTypeUnauthenticated ErrorType = "unauthenticated"
	ErrorTypeNetwork         ErrorType = "network_error"
	ErrorTypeHTTP            ErrorType = "http_error"
	ErrorTypeValidation      ErrorType = "validation_error"
	ErrorTypeParse           ErrorType = "parse_error"
	ErrorTypeRealtime        ErrorType = "realtime_warning"
)

// AppError represents an application error with additional context.
// Message is safe to show to users; Details carries technical context
// (URLs, payload fragments) and must never reach the presentation layer.
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code,omitempty"`
	Details string    `json:"details,omitempty"`
	Action  string    `json:"action_suggestion,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// NewConfigurationError creates an error for missing or invalid configuration
func NewConfigurationError(message string, details ...string) *AppError {
	return &AppError{
		Type:    ErrorTypeConfiguration,
		Message: message,
		Details: first(details),
		Action:  "Contact your system administrator.",
	}
}

// NewUnauthenticatedError creates an error for operations attempted without a session
func NewUnauthenticatedError(message string, details ...string) *AppError {
	if message == "" {
		message = "No active session. Please sign in."
	}
	return &AppError{
		Type:    ErrorTypeUnauthenticated,
		Message: message,
		Code:    http.StatusUnauthorized,
		Details: first(details),
	}
}

// NewNetworkError creates an error for transport-level failures
func NewNetworkError(message string, details ...string) *AppError {
	return &AppError{
		Type:    ErrorTypeNetwork,
		Message: message,
		Details: first(details),
		Action:  "Check your connection and try again.",
	}
}

// NewHTTPError creates an error for a non-2xx response
func NewHTTPError(status int, message string, details ...string) *AppError {
	return &AppError{
		Type:    ErrorTypeHTTP,
		Message: message,
		Code:    status,
		Details: first(details),
	}
}

// NewValidationError creates an error for client-side schema violations
func NewValidationError(message string, details ...string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    http.StatusBadRequest,
		Details: first(details),
	}
}

// NewParseError creates an error for malformed response bodies
func NewParseError(message string, details ...string) *AppError {
	return &AppError{
		Type:    ErrorTypeParse,
		Message: message,
		Details: first(details),
	}
}

// NewRealtimeWarning creates a non-fatal error for a change-feed event
// that could not be normalized. Callers log it and drop the event.
func NewRealtimeWarning(message string, details ...string) *AppError {
	return &AppError{
		Type:    ErrorTypeRealtime,
		Message: message,
		Details: first(details),
	}
}

// WithAction returns a copy of the error carrying an action suggestion.
func (e *AppError) WithAction(action string) *AppError {
	cp := *e
	cp.Action = action
	return &cp
}

func first(details []string) string {
	if len(details) > 0 {
		return details[0]
	}
	return ""
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsUnauthenticated checks if the error indicates a missing session
func IsUnauthenticated(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeUnauthenticated
}

// IsNetworkError checks if the error is a transport-level failure
func IsNetworkError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeNetwork
}

// IsHTTPError checks if the error is a non-2xx response
func IsHTTPError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeHTTP
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeValidation
}

// IsParseError checks if the error is a malformed-body error
func IsParseError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeParse
}

// IsConfigurationError checks if the error is a configuration error
func IsConfigurationError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeConfiguration
}

// UserMessage resolves any error to a human-readable message with
// technical detail stripped. Unknown errors collapse to a generic line.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if appErr := GetAppError(err); appErr != nil {
		if appErr.Action != "" {
			return appErr.Message + " " + appErr.Action
		}
		return appErr.Message
	}
	return "An unexpected error occurred. Please try again."
}
