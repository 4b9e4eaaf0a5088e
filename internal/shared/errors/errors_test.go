package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NewHTTPError(404, "Request not found", "GET /api/requests/9")
	assert.Equal(t, "http_error: Request not found (GET /api/requests/9)", err.Error())

	bare := NewParseError("Could not process the server response")
	assert.Equal(t, "parse_error: Could not process the server response", bare.Error())
}

func TestTypeCheckers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		checker func(error) bool
	}{
		{"unauthenticated", NewUnauthenticatedError(""), IsUnauthenticated},
		{"network", NewNetworkError("Cannot reach backend"), IsNetworkError},
		{"http", NewHTTPError(500, "Server error"), IsHTTPError},
		{"validation", NewValidationError("Description too long"), IsValidationError},
		{"parse", NewParseError("bad json"), IsParseError},
		{"configuration", NewConfigurationError("missing backend URL"), IsConfigurationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.checker(tt.err))
			assert.False(t, tt.checker(fmt.Errorf("plain")))
		})
	}
}

func TestTypeCheckers_Wrapped(t *testing.T) {
	err := fmt.Errorf("list requests: %w", NewUnauthenticatedError(""))
	assert.True(t, IsUnauthenticated(err))
	assert.False(t, IsNetworkError(err))

	appErr := GetAppError(err)
	assert.NotNil(t, appErr)
	assert.Equal(t, ErrorTypeUnauthenticated, appErr.Type)
}

func TestUserMessage_StripsDetails(t *testing.T) {
	err := NewNetworkError("Cannot reach the backend.", "dial tcp 127.0.0.1:8000: connection refused")
	msg := UserMessage(err)
	assert.NotContains(t, msg, "127.0.0.1")
	assert.Contains(t, msg, "Cannot reach the backend.")
	assert.Contains(t, msg, "Check your connection")
}

func TestUserMessage_UnknownError(t *testing.T) {
	assert.Equal(t, "An unexpected error occurred. Please try again.", UserMessage(fmt.Errorf("boom")))
	assert.Equal(t, "", UserMessage(nil))
}

func TestWithAction_DoesNotMutate(t *testing.T) {
	base := NewHTTPError(401, "Your session has expired.")
	withAction := base.WithAction("Please sign in again.")
	assert.Empty(t, base.Action)
	assert.Equal(t, "Please sign in again.", withAction.Action)
	assert.Equal(t, base.Code, withAction.Code)
}
