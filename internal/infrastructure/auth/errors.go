package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/rbetancur/amg-desk-ai/internal/shared/errors"
)

// authErrorBody covers the error envelopes the auth service emits
// across versions.
type authErrorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (b *authErrorBody) text() string {
	for _, s := range []string{b.ErrorDescription, b.Msg, b.Message, b.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// decodeAuthError maps an auth-service error response to a typed error
// with a human-readable message. Known service phrasings are translated;
// anything else surfaces as-is with the raw text kept in Details.
func decodeAuthError(status int, body []byte) *apperrors.AppError {
	var parsed authErrorBody
	_ = json.Unmarshal(body, &parsed)
	raw := parsed.text()
	lower := strings.ToLower(raw)

	switch {
	case strings.Contains(lower, "invalid login credentials"),
		strings.Contains(lower, "invalid credentials"):
		return apperrors.NewUnauthenticatedError("Invalid credentials.", raw).
			WithAction("Check your email and password.")
	case strings.Contains(lower, "already registered"):
		return apperrors.NewValidationError("This email is already registered.", raw).
			WithAction("Sign in instead, or use another email.")
	case strings.Contains(lower, "password should be at least"),
		strings.Contains(lower, "password is too short"):
		return apperrors.NewValidationError("The password must be at least 6 characters.", raw)
	case strings.Contains(lower, "invalid email"),
		strings.Contains(lower, "email format is invalid"),
		strings.Contains(lower, "validate email address"):
		return apperrors.NewValidationError("The email format is not valid.", raw)
	case strings.Contains(lower, "email not confirmed"),
		strings.Contains(lower, "email not verified"):
		return apperrors.NewValidationError("Your email has not been verified yet.", raw).
			WithAction("Check your inbox for the confirmation message.")
	case strings.Contains(lower, "too many requests"),
		strings.Contains(lower, "rate limit"),
		status == http.StatusTooManyRequests:
		return apperrors.NewHTTPError(status, "Too many attempts.", raw).
			WithAction("Wait a few minutes before trying again.")
	case strings.Contains(lower, "user not found"):
		return apperrors.NewValidationError("No account exists for that email.", raw).
			WithAction("Check the address, or sign up first.")
	case strings.Contains(lower, "signup") && strings.Contains(lower, "disabled"):
		return apperrors.NewValidationError("New account registration is currently disabled.", raw)
	case strings.Contains(lower, "token expired"),
		strings.Contains(lower, "session expired"),
		strings.Contains(lower, "jwt expired"),
		strings.Contains(lower, "invalid token"),
		strings.Contains(lower, "refresh token"):
		return apperrors.NewUnauthenticatedError("Your session has expired.", raw).
			WithAction("Please sign in again.")
	}

	if raw != "" {
		return apperrors.NewHTTPError(status, raw)
	}
	return apperrors.NewHTTPError(status, fmt.Sprintf("Authentication failed with HTTP %d.", status))
}
