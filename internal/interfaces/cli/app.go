package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/rbetancur/amg-desk-ai/internal/application/store"
	"github.com/rbetancur/amg-desk-ai/internal/infrastructure/api"
	"github.com/rbetancur/amg-desk-ai/internal/infrastructure/auth"
	"github.com/rbetancur/amg-desk-ai/internal/infrastructure/config"
	"github.com/rbetancur/amg-desk-ai/internal/infrastructure/realtime"
	apperrors "github.com/rbetancur/amg-desk-ai/internal/shared/errors"
	"github.com/rbetancur/amg-desk-ai/internal/shared/logger"
)

// app bundles the wiring every command needs: loaded config, the
// session provider with the on-disk cache attached, and the API client
// drawing tokens from it.
type app struct {
	cfg      *config.Config
	provider *auth.Provider
	client   *api.Client
}

// newApp builds the shared wiring and resumes any cached session. A
// failed resume degrades to signed-out instead of blocking the command.
func newApp(ctx context.Context) (*app, error) {
	cfg := config.Get()
	if cfg == nil {
		return nil, apperrors.NewConfigurationError("Configuration is not loaded.")
	}

	cache, err := auth.DefaultSessionCache()
	if err != nil {
		return nil, err
	}

	provider := auth.NewProvider(&cfg.Auth, auth.WithCache(cache))
	if _, err := provider.Resume(ctx); err != nil {
		logger.Warn("could not resume cached session", "error", err)
	}

	client := api.NewClient(cfg.Backend.BaseURL, provider,
		api.WithTimeout(time.Duration(cfg.Backend.TimeoutSeconds)*time.Second))

	return &app{cfg: cfg, provider: provider, client: client}, nil
}

// requireAuth rejects commands that need a signed-in user before any
// network traffic happens.
func (a *app) requireAuth() error {
	if !a.provider.IsAuthenticated() {
		return apperrors.NewUnauthenticatedError("")
	}
	return nil
}

// feedOpener builds the change-feed opener for the live board.
func (a *app) feedOpener() (store.FeedOpener, error) {
	dialer, err := realtime.NewDialer(a.cfg.Auth.URL, a.cfg.Auth.AnonKey, &a.cfg.Realtime)
	if err != nil {
		return nil, err
	}
	return store.FeedOpenerFunc(func(ctx context.Context, owner string) (store.Feed, error) {
		return dialer.Open(ctx, owner)
	}), nil
}

// promptPassword reads a password from the terminal without echo.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}
