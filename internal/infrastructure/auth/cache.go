package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// SessionCache persists the session between CLI invocations as a JSON
// file in the user config directory. The file is owner-readable only.
type SessionCache struct {
	path string
}

func NewSessionCache(path string) *SessionCache {
	return &SessionCache{path: path}
}

// DefaultSessionCache places the cache under the platform config dir.
func DefaultSessionCache() (*SessionCache, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	return NewSessionCache(filepath.Join(dir, "deskai", "session.json")), nil
}

// Load reads the cached session. A missing or unreadable cache is not an
// error; it just means there is no session to resume.
func (c *SessionCache) Load() (*Session, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session cache: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		// Corrupt cache: discard rather than block sign-in.
		_ = os.Remove(c.path)
		return nil, nil
	}
	if session.AccessToken == "" {
		return nil, nil
	}
	return &session, nil
}

// Save writes the session to disk.
func (c *SessionCache) Save(session *Session) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("write session cache: %w", err)
	}
	return nil
}

// Clear removes the cached session. Clearing an absent cache is a no-op.
func (c *SessionCache) Clear() error {
	err := os.Remove(c.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear session cache: %w", err)
	}
	return nil
}
