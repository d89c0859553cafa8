// Package cli implements rhctl, the operator's command line companion to
// the Gourmetto RH service.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gourmetto/internal/domain/hr"
)

// SessionKey is the fixed key the authenticated user is stored under.
const SessionKey = "rh_user"

var ErrNoSession = errors.New("not logged in")

type Session struct {
	User      hr.AppUser `json:"user"`
	Token     string     `json:"token"`
	APIURL    string     `json:"apiUrl"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

// SessionFile persists one Session in a small JSON document.
type SessionFile struct {
	Path string
	now  func() time.Time
}

func NewSessionFile(path string) *SessionFile {
	return &SessionFile{Path: path, now: time.Now}
}

// Load rehydrates the stored session. A missing, unreadable or expired
// entry reads as ErrNoSession.
func (f *SessionFile) Load() (Session, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, ErrNoSession
		}
		return Session{}, fmt.Errorf("read session: %w", err)
	}
	var doc map[string]Session
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Session{}, ErrNoSession
	}
	sess, ok := doc[SessionKey]
	if !ok || sess.Token == "" {
		return Session{}, ErrNoSession
	}
	if !sess.ExpiresAt.IsZero() && f.now().After(sess.ExpiresAt) {
		return Session{}, ErrNoSession
	}
	return sess, nil
}

func (f *SessionFile) Save(sess Session) error {
	raw, err := json.MarshalIndent(map[string]Session{SessionKey: sess}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(f.Path, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (f *SessionFile) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
