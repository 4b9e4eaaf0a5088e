// Package auth implements the session provider over the external
// auth/database service's REST endpoints. Session state is held in
// memory, optionally persisted through a SessionCache, and exposed to
// the rest of the client through an explicit Provider value; there is
// no ambient singleton.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	sharedConfig "github.com/rbetancur/amg-desk-ai/internal/shared/config"
	apperrors "github.com/rbetancur/amg-desk-ai/internal/shared/errors"
	"github.com/rbetancur/amg-desk-ai/internal/shared/logger"
)

// Provider wraps sign-in, sign-up, sign-out, and session state against
// the auth service. Listeners registered via OnChange are notified
// synchronously whenever the session changes.
type Provider struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	cache      *SessionCache
	log        *slog.Logger

	mu             sync.RWMutex
	session        *Session
	listeners      map[int]func(*Session)
	nextListenerID int
}

// ProviderOption configures the Provider.
type ProviderOption func(*Provider)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ProviderOption {
	return func(p *Provider) {
		p.httpClient = c
	}
}

// WithCache persists sessions through the given cache.
func WithCache(cache *SessionCache) ProviderOption {
	return func(p *Provider) {
		p.cache = cache
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) ProviderOption {
	return func(p *Provider) {
		p.log = log
	}
}

// NewProvider creates a session provider for the configured auth service.
func NewProvider(cfg *sharedConfig.AuthConfig, opts ...ProviderOption) *Provider {
	p := &Provider{
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
		anonKey: cfg.AnonKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log:       logger.WithComponent("auth"),
		listeners: map[int]func(*Session){},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// sessionWire is the token endpoint response shape.
type sessionWire struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

func (w *sessionWire) toSession() *Session {
	s := &Session{
		AccessToken:  w.AccessToken,
		RefreshToken: w.RefreshToken,
		User:         w.User,
	}
	switch {
	case w.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(w.ExpiresAt, 0).UTC()
	case w.ExpiresIn > 0:
		s.ExpiresAt = time.Now().UTC().Add(time.Duration(w.ExpiresIn) * time.Second)
	}
	// Cross-check against the token's own exp claim; the claim wins when
	// it disagrees, since the backend validates the claim and not our
	// bookkeeping.
	if exp, ok := tokenExpiry(w.AccessToken); ok {
		s.ExpiresAt = exp
	}
	return s
}

// tokenExpiry reads the exp claim without verifying the signature.
// Verification belongs to the services that accept the token.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time.UTC(), true
}

// Resume restores a cached session, refreshing it if expired. Returns
// the active session or nil when there is nothing to resume.
func (p *Provider) Resume(ctx context.Context) (*Session, error) {
	if p.cache == nil {
		return nil, nil
	}
	cached, err := p.cache.Load()
	if err != nil {
		return nil, err
	}
	if cached == nil {
		return nil, nil
	}

	if cached.Expired(time.Now().UTC()) {
		if cached.RefreshToken == "" {
			_ = p.cache.Clear()
			return nil, nil
		}
		p.setSession(cached, false)
		refreshed, err := p.Refresh(ctx)
		if err != nil {
			p.setSession(nil, true)
			_ = p.cache.Clear()
			return nil, nil
		}
		return refreshed, nil
	}

	p.setSession(cached, true)
	return cached, nil
}

// SignIn authenticates with email and password.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	var wire sessionWire
	err := p.post(ctx, "/auth/v1/token?grant_type=password", map[string]string{
		"email":    email,
		"password": password,
	}, "", &wire)
	if err != nil {
		return nil, err
	}

	session := wire.toSession()
	p.setSession(session, true)
	p.log.Info("signed in", "user", session.User.Email)
	return session, nil
}

// SignUp registers a new account. When the service auto-confirms the
// account it also returns a live session, which is adopted.
func (p *Provider) SignUp(ctx context.Context, email, password string) (*User, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	if _, err := UsernameFromEmail(email); err != nil {
		return nil, err
	}

	var wire struct {
		sessionWire
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	err := p.post(ctx, "/auth/v1/signup", map[string]string{
		"email":    email,
		"password": password,
	}, "", &wire)
	if err != nil {
		return nil, err
	}

	if wire.AccessToken != "" {
		session := wire.sessionWire.toSession()
		p.setSession(session, true)
		return &session.User, nil
	}
	return &User{ID: wire.ID, Email: wire.Email}, nil
}

// SignOut revokes the current session. The local session is cleared
// even when the revocation call fails; a stale server-side token is the
// lesser problem.
func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.RLock()
	session := p.session
	p.mu.RUnlock()

	if session == nil {
		return nil
	}

	err := p.post(ctx, "/auth/v1/logout", nil, session.AccessToken, nil)
	p.setSession(nil, true)
	if err != nil && !apperrors.IsUnauthenticated(err) {
		p.log.Warn("sign-out revocation failed", "error", err)
		return err
	}
	return nil
}

// Refresh exchanges the refresh token for a new session.
func (p *Provider) Refresh(ctx context.Context) (*Session, error) {
	p.mu.RLock()
	session := p.session
	p.mu.RUnlock()

	if session == nil || session.RefreshToken == "" {
		return nil, apperrors.NewUnauthenticatedError("")
	}

	var wire sessionWire
	err := p.post(ctx, "/auth/v1/token?grant_type=refresh_token", map[string]string{
		"refresh_token": session.RefreshToken,
	}, "", &wire)
	if err != nil {
		return nil, err
	}

	refreshed := wire.toSession()
	p.setSession(refreshed, true)
	return refreshed, nil
}

// Session returns the current session, or nil.
func (p *Provider) Session() *Session {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.session == nil {
		return nil
	}
	cp := *p.session
	return &cp
}

// IsAuthenticated reports whether a live session exists.
func (p *Provider) IsAuthenticated() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.session != nil && !p.session.Expired(time.Now().UTC())
}

// Token returns the bearer token for the current session. Implements
// the API client's TokenSource.
func (p *Provider) Token() (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.session == nil {
		return "", apperrors.NewUnauthenticatedError("")
	}
	if p.session.Expired(time.Now().UTC()) {
		return "", apperrors.NewUnauthenticatedError("Your session has expired.").
			WithAction("Please sign in again.")
	}
	return p.session.AccessToken, nil
}

// Username derives the help-desk username for the signed-in account.
func (p *Provider) Username() (string, error) {
	p.mu.RLock()
	session := p.session
	p.mu.RUnlock()

	if session == nil {
		return "", apperrors.NewUnauthenticatedError("")
	}
	return UsernameFromEmail(session.User.Email)
}

// OnChange registers a listener notified synchronously on every session
// change (sign-in, sign-out, refresh). The returned func removes it.
func (p *Provider) OnChange(fn func(*Session)) func() {
	p.mu.Lock()
	id := p.nextListenerID
	p.nextListenerID++
	p.listeners[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *Provider) setSession(session *Session, notify bool) {
	p.mu.Lock()
	p.session = session
	listeners := make([]func(*Session), 0, len(p.listeners))
	for _, fn := range p.listeners {
		listeners = append(listeners, fn)
	}
	p.mu.Unlock()

	if p.cache != nil {
		if session != nil {
			if err := p.cache.Save(session); err != nil {
				p.log.Warn("failed to persist session", "error", err)
			}
		} else {
			_ = p.cache.Clear()
		}
	}

	if notify {
		for _, fn := range listeners {
			fn(session)
		}
	}
}

// post performs a JSON POST against the auth service.
func (p *Provider) post(ctx context.Context, path string, body any, bearer string, result any) error {
	url := p.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", p.anonKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return apperrors.NewNetworkError(
			"Cannot reach the authentication service.",
			fmt.Sprintf("POST %s: %v", url, err),
		)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewNetworkError(
			"Connection lost while talking to the authentication service.",
			fmt.Sprintf("POST %s: %v", url, err),
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAuthError(resp.StatusCode, respBody)
	}

	if result == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return apperrors.NewParseError(
			"Could not process the authentication response.",
			fmt.Sprintf("POST %s: %v", url, err),
		)
	}
	return nil
}

func validateCredentials(email, password string) error {
	if email == "" {
		return apperrors.NewValidationError("The email is required.")
	}
	if !strings.Contains(email, "@") {
		return apperrors.NewValidationError("The email format is not valid.")
	}
	if password == "" {
		return apperrors.NewValidationError("The password is required.")
	}
	if len(password) < 6 {
		return apperrors.NewValidationError("The password must be at least 6 characters.")
	}
	return nil
}
