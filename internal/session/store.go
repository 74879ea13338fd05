// ABOUTME: Persisted authentication state for the asistente-neae client
// ABOUTME: Mirrors the server cookie with a local flag, credential and profile cache

package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/client"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/debuglog"
)

// AuthCookieName is the cookie the backend sets on a successful login.
const AuthCookieName = "auth_key"

// Backend is the slice of the API client the store needs.
type Backend interface {
	Logout(ctx context.Context) error
	UserData(ctx context.Context) (*client.Profile, error)
	AuthCookie(name string) *http.Cookie
	ClearCookies()
}

// Store holds the client-side authentication state: a logged-in flag, the
// access credential and a cached usage profile, persisted as a JSON file.
// Authentication additionally requires the server's auth cookie, so a stale
// flag without a live cookie (or the reverse) never counts as logged in.
// Methods run from both the UI goroutine and command goroutines; the mutex
// guards state and Profile returns a copy, like Jar does for cookies.
type Store struct {
	path    string
	backend Backend

	mu    sync.Mutex
	state authState
}

type authState struct {
	LoggedIn   bool            `json:"logged_in"`
	Credential string          `json:"credential,omitempty"`
	Profile    *client.Profile `json:"profile,omitempty"`
}

// NewStore loads the persisted state from configDir. A missing or corrupt
// state file starts logged out.
func NewStore(configDir string, backend Backend) *Store {
	s := &Store{
		path:    filepath.Join(configDir, "session.json"),
		backend: backend,
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		s.state = authState{}
	}
	return s
}

// IsAuthenticated reports whether both the auth cookie and the local flag are
// present. Either one missing means logged out.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	loggedIn := s.state.LoggedIn
	s.mu.Unlock()
	return loggedIn && s.backend.AuthCookie(AuthCookieName) != nil
}

// SetAuthenticated persists the flag and credential. Passing false clears the
// flag, credential and cached profile together.
func (s *Store) SetAuthenticated(authenticated bool, credential string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if authenticated && credential != "" {
		s.state = authState{LoggedIn: true, Credential: credential}
	} else {
		s.state = authState{}
	}
	s.save()
}

// Credential returns the stored access key, or "" when logged out.
func (s *Store) Credential() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Credential
}

// Profile returns a copy of the cached usage profile, or nil.
func (s *Store) Profile() *client.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Profile == nil {
		return nil
	}
	profile := *s.state.Profile
	return &profile
}

// FetchProfile refreshes the usage profile from the backend. It is a no-op
// returning nil when not authenticated. A 401 invalidates the session. Any
// other failure is absorbed: the error goes to the diagnostic log, the cache
// is left untouched and the caller gets nil.
func (s *Store) FetchProfile(ctx context.Context) *client.Profile {
	if !s.IsAuthenticated() {
		return nil
	}

	profile, err := s.backend.UserData(ctx)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			s.Invalidate()
			return nil
		}
		debuglog.Error("session.FetchProfile", err)
		return nil
	}

	s.mu.Lock()
	// The authoritative profile overwrites any optimistic local increments.
	cached := *profile
	s.state.Profile = &cached
	s.save()
	s.mu.Unlock()

	out := *profile
	return &out
}

// Logout tells the backend to drop the session, tolerating failure, then
// unconditionally clears the local auth state and cookies.
func (s *Store) Logout(ctx context.Context) {
	if err := s.backend.Logout(ctx); err != nil {
		debuglog.Warn("server logout failed, clearing local state anyway: %v", err)
	}
	s.Invalidate()
}

// Invalidate clears the local auth state and cookies without the remote
// logout call. This is the path for a session the server has already
// rejected, where a /logout round trip buys nothing and must not block.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.state = authState{}
	s.save()
	s.mu.Unlock()
	s.backend.ClearCookies()
}

// IncrementUsage bumps the cached usage count by one and persists it. Used to
// reflect a successful send immediately, ahead of the next authoritative
// fetch. Returns a copy of the updated profile, or nil when nothing is cached.
func (s *Store) IncrementUsage() *client.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Profile == nil {
		return nil
	}
	s.state.Profile.UsageCount++
	s.save()
	profile := *s.state.Profile
	return &profile
}

// save writes the state to disk. Callers must hold the mutex.
func (s *Store) save() {
	if s.path == "" {
		return
	}
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		debuglog.Error("session.save", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		debuglog.Error("session.save", err)
	}
}
