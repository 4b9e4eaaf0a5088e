package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedConfig "github.com/rbetancur/amg-desk-ai/internal/shared/config"
	apperrors "github.com/rbetancur/amg-desk-ai/internal/shared/errors"
)

func testProvider(t *testing.T, url string, opts ...ProviderOption) *Provider {
	t.Helper()
	cfg := &sharedConfig.AuthConfig{URL: url, AnonKey: "anon-key"}
	return NewProvider(cfg, opts...)
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestUsernameFromEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		want    string
		wantErr bool
	}{
		{"simple", "cmarin@agm.com", "cmarin", false},
		{"dotted", "carolina.marin@agm.com", "carolina.marin", false},
		{"exactly 25 chars", strings.Repeat("a", 25) + "@agm.com", strings.Repeat("a", 25), false},
		{"26 chars rejected", strings.Repeat("a", 26) + "@agm.com", "", true},
		{"no at sign", "cmarin", "", true},
		{"empty local part", "@agm.com", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UsernameFromEmail(tt.email)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSignIn_Success(t *testing.T) {
	accessToken := signedToken(t, time.Now().Add(time.Hour))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "cmarin@agm.com", body["email"])

		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  accessToken,
			"token_type":    "bearer",
			"expires_in":    3600,
			"refresh_token": "refresh-1",
			"user":          map[string]string{"id": "user-1", "email": "cmarin@agm.com"},
		})
	}))
	defer srv.Close()

	p := testProvider(t, srv.URL)

	var notified []*Session
	p.OnChange(func(s *Session) { notified = append(notified, s) })

	session, err := p.SignIn(context.Background(), "cmarin@agm.com", "secret123")
	require.NoError(t, err)

	assert.Equal(t, accessToken, session.AccessToken)
	assert.Equal(t, "refresh-1", session.RefreshToken)
	assert.False(t, session.ExpiresAt.IsZero())
	assert.True(t, p.IsAuthenticated())

	username, err := p.Username()
	require.NoError(t, err)
	assert.Equal(t, "cmarin", username)

	token, err := p.Token()
	require.NoError(t, err)
	assert.Equal(t, accessToken, token)

	require.Len(t, notified, 1, "listener notified synchronously on sign-in")
	assert.Equal(t, session.AccessToken, notified[0].AccessToken)
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	}))
	defer srv.Close()

	p := testProvider(t, srv.URL)
	_, err := p.SignIn(context.Background(), "cmarin@agm.com", "wrongpass")

	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthenticated(err))
	assert.Contains(t, apperrors.UserMessage(err), "Invalid credentials.")
	assert.False(t, p.IsAuthenticated())
}

func TestSignIn_ClientSideValidation(t *testing.T) {
	p := testProvider(t, "http://auth.invalid")

	tests := []struct {
		name, email, password string
	}{
		{"empty email", "", "secret123"},
		{"bad email", "not-an-email", "secret123"},
		{"empty password", "a@b.com", ""},
		{"short password", "a@b.com", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.SignIn(context.Background(), tt.email, tt.password)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidationError(err))
		})
	}
}

func TestDecodeAuthError_Translations(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		checker func(error) bool
	}{
		{"already registered", 400, `{"msg":"User already registered"}`, "already registered", apperrors.IsValidationError},
		{"weak password", 422, `{"msg":"Password should be at least 6 characters"}`, "at least 6 characters", apperrors.IsValidationError},
		{"unconfirmed email", 400, `{"msg":"Email not confirmed"}`, "not been verified", apperrors.IsValidationError},
		{"rate limited", 429, `{"msg":"Too many requests"}`, "Too many attempts", apperrors.IsHTTPError},
		{"expired token", 401, `{"msg":"JWT expired"}`, "session has expired", apperrors.IsUnauthenticated},
		{"unknown message passes through", 400, `{"msg":"Flux capacitor misaligned"}`, "Flux capacitor misaligned", apperrors.IsHTTPError},
		{"empty body", 500, ``, "HTTP 500", apperrors.IsHTTPError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := decodeAuthError(tt.status, []byte(tt.body))
			assert.True(t, tt.checker(err))
			assert.Contains(t, err.Message, tt.want)
		})
	}
}

func TestToken_ExpiredSession(t *testing.T) {
	p := testProvider(t, "http://auth.invalid")
	p.setSession(&Session{
		AccessToken: "stale",
		ExpiresAt:   time.Now().UTC().Add(-time.Minute),
		User:        User{Email: "cmarin@agm.com"},
	}, false)

	_, err := p.Token()
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthenticated(err))
	assert.False(t, p.IsAuthenticated())
}

func TestToken_NoSession(t *testing.T) {
	p := testProvider(t, "http://auth.invalid")
	_, err := p.Token()
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthenticated(err))
}

func TestSignOut_ClearsSessionAndNotifies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		assert.Equal(t, "Bearer live-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	p := testProvider(t, srv.URL)
	p.setSession(&Session{AccessToken: "live-token", User: User{Email: "a@b.com"}}, false)

	var notified []*Session
	p.OnChange(func(s *Session) { notified = append(notified, s) })

	require.NoError(t, p.SignOut(context.Background()))
	assert.False(t, p.IsAuthenticated())
	require.Len(t, notified, 1)
	assert.Nil(t, notified[0])

	// Signing out twice is a no-op.
	require.NoError(t, p.SignOut(context.Background()))
	assert.Len(t, notified, 1)
}

func TestOnChange_Unsubscribe(t *testing.T) {
	p := testProvider(t, "http://auth.invalid")

	var count int
	remove := p.OnChange(func(*Session) { count++ })

	p.setSession(&Session{AccessToken: "t1"}, true)
	assert.Equal(t, 1, count)

	remove()
	p.setSession(nil, true)
	assert.Equal(t, 1, count)
}

func TestSessionCache_RoundTrip(t *testing.T) {
	cache := NewSessionCache(filepath.Join(t.TempDir(), "nested", "session.json"))

	loaded, err := cache.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded, "empty cache loads as no session")

	session := &Session{
		AccessToken:  "tok",
		RefreshToken: "ref",
		ExpiresAt:    time.Now().UTC().Add(time.Hour).Truncate(time.Second),
		User:         User{ID: "u1", Email: "cmarin@agm.com"},
	}
	require.NoError(t, cache.Save(session))

	loaded, err = cache.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, session.AccessToken, loaded.AccessToken)
	assert.Equal(t, session.User, loaded.User)
	assert.True(t, session.ExpiresAt.Equal(loaded.ExpiresAt))

	require.NoError(t, cache.Clear())
	require.NoError(t, cache.Clear(), "clearing twice is a no-op")

	loaded, err = cache.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestResume_ValidCachedSession(t *testing.T) {
	cache := NewSessionCache(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, cache.Save(&Session{
		AccessToken: "cached-token",
		ExpiresAt:   time.Now().UTC().Add(time.Hour),
		User:        User{Email: "cmarin@agm.com"},
	}))

	p := testProvider(t, "http://auth.invalid", WithCache(cache))
	session, err := p.Resume(context.Background())
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.True(t, p.IsAuthenticated())
}

func TestResume_ExpiredWithoutRefreshToken(t *testing.T) {
	cache := NewSessionCache(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, cache.Save(&Session{
		AccessToken: "stale",
		ExpiresAt:   time.Now().UTC().Add(-time.Hour),
	}))

	p := testProvider(t, "http://auth.invalid", WithCache(cache))
	session, err := p.Resume(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.False(t, p.IsAuthenticated())

	loaded, err := cache.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded, "expired cache is cleared")
}

func TestResume_ExpiredRefreshesSession(t *testing.T) {
	accessToken := signedToken(t, time.Now().Add(time.Hour))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  accessToken,
			"refresh_token": "refresh-2",
			"expires_in":    3600,
			"user":          map[string]string{"id": "u1", "email": "cmarin@agm.com"},
		})
	}))
	defer srv.Close()

	cache := NewSessionCache(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, cache.Save(&Session{
		AccessToken:  "stale",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().UTC().Add(-time.Hour),
	}))

	p := testProvider(t, srv.URL, WithCache(cache))
	session, err := p.Resume(context.Background())
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, accessToken, session.AccessToken)
	assert.True(t, p.IsAuthenticated())
}
