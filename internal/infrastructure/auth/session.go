package auth

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/rbetancur/amg-desk-ai/internal/shared/errors"
)

// User is the auth-service account identity.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is an authenticated session against the auth service.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// Expired reports whether the session's access token has expired.
// Sessions without a known expiry are assumed live; the backend will
// reject them if not.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// MaxUsernameLength is the legacy USUSOLICITA column limit.
const MaxUsernameLength = 25

// UsernameFromEmail derives the help-desk username: the local part of
// the account email. Longer local parts cannot be stored in the legacy
// owner column and are rejected.
func UsernameFromEmail(email string) (string, error) {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return "", apperrors.NewValidationError("The account email is not valid.", email)
	}
	if len(local) > MaxUsernameLength {
		return "", apperrors.NewValidationError(
			fmt.Sprintf("Username %q exceeds the %d character limit.", local, MaxUsernameLength))
	}
	return local, nil
}
