package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/matthieukhl/shopctl/internal/models"
)

// schemaVersion tags the persisted blob so the format can evolve
// without misreading older files. A version mismatch discards the
// stored session instead of failing.
const schemaVersion = 1

var ErrTokenMismatch = errors.New("access and refresh token must both be set or both be empty")

type persistedState struct {
	Version      int          `json:"version"`
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// Store is the single source of truth for the logged-in user and
// credentials. It is shared by the HTTP client (which reads the access
// token and rewrites it on silent refresh) and every command needing
// the current identity, so all access is mutex-guarded.
type Store struct {
	mu   sync.RWMutex
	path string

	user         *models.User
	accessToken  string
	refreshToken string
}

// Open loads the session persisted at path, if any. A missing file or
// an unreadable/outdated blob yields an empty (logged-out) store.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var state persistedState
	if err := json.Unmarshal(data, &state); err != nil || state.Version != schemaVersion {
		// Corrupt or written by an incompatible version. Start logged out.
		return s, nil
	}
	if (state.AccessToken == "") != (state.RefreshToken == "") {
		return s, nil
	}

	s.user = state.User
	s.accessToken = state.AccessToken
	s.refreshToken = state.RefreshToken
	return s, nil
}

// SetAuth replaces the user and both tokens atomically and persists
// the new session.
func (s *Store) SetAuth(user *models.User, accessToken, refreshToken string) error {
	if (accessToken == "") != (refreshToken == "") {
		return ErrTokenMismatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = user
	s.accessToken = accessToken
	s.refreshToken = refreshToken
	return s.persistLocked()
}

// SetAccessToken swaps in a freshly refreshed access token, keeping
// the user and refresh token. It fails if no session is active.
func (s *Store) SetAccessToken(accessToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refreshToken == "" {
		return ErrTokenMismatch
	}
	s.accessToken = accessToken
	return s.persistLocked()
}

// Logout clears the in-memory session and removes the persisted copy.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.accessToken = ""
	s.refreshToken = ""

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// Authenticated reports whether a credentialed session is loaded.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken != ""
}

// persistLocked writes the session blob via a temp file + rename so a
// crash mid-write never leaves a truncated session. Caller holds s.mu.
func (s *Store) persistLocked() error {
	state := persistedState{
		Version:      schemaVersion,
		User:         s.user,
		AccessToken:  s.accessToken,
		RefreshToken: s.refreshToken,
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}
