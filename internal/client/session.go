package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Zachkp/portfolio/internal/auth"
)

// ErrNoSession means the user has not logged in, or the saved session expired.
var ErrNoSession = errors.New("not logged in")

// SavedSession is the persisted form of an admin session.
type SavedSession struct {
	Server    string    `json:"server"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStore keeps the CLI session in a single file readable only by the user.
type SessionStore struct {
	path string
}

func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// DefaultSessionStore uses portfolioctl/session under the user config dir.
func DefaultSessionStore() (*SessionStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate config dir: %w", err)
	}
	return NewSessionStore(filepath.Join(dir, "portfolioctl", "session")), nil
}

func (s *SessionStore) Path() string { return s.path }

func (s *SessionStore) Save(server string, sess *auth.Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	data, err := json.Marshal(SavedSession{Server: server, Token: sess.Token, ExpiresAt: sess.ExpiresAt})
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Load returns the saved session for server. Expired or foreign sessions are
// reported as ErrNoSession.
func (s *SessionStore) Load(server string, now time.Time) (*SavedSession, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var saved SavedSession
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if saved.Token == "" || saved.Server != server || !now.Before(saved.ExpiresAt) {
		return nil, ErrNoSession
	}
	return &saved, nil
}

func (s *SessionStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
