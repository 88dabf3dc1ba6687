package session

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"

	"dotask/internal/api"
	"dotask/internal/logger"
)

// ErrNotAuthenticated is returned when an operation needs a session and
// none is stored.
var ErrNotAuthenticated = errors.New("not logged in")

// AuthAPI is the slice of the API the manager needs. The client used
// here must not authenticate through the manager itself, or a failing
// refresh would recurse.
type AuthAPI interface {
	Refresh(ctx context.Context, refreshToken string) (api.AuthTokens, error)
	Logout(ctx context.Context, refreshToken string) error
}

// Manager owns the credential pair. In-memory and persisted state move
// together on every mutation; a refresh observed by one request is
// visible to all others through the store.
type Manager struct {
	store *Store
	auth  AuthAPI

	mu     sync.RWMutex
	tokens Tokens

	refresh singleflight.Group
}

// NewManager creates a Manager over store, using auth for refresh and
// server-side logout calls.
func NewManager(store *Store, auth AuthAPI) *Manager {
	return &Manager{store: store, auth: auth}
}

// LoadPersisted reads any stored pair into memory. The tokens are not
// validated against the server; expiry is discovered on the first 401.
func (m *Manager) LoadPersisted() error {
	tokens, ok, err := m.store.Load()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.tokens = tokens
	} else {
		m.tokens = Tokens{}
	}
	return nil
}

// Authenticated reports whether a pair is held.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokens.Valid()
}

// SaveTokens persists the pair and updates memory. Memory is only
// touched once the write succeeded, so the two never diverge.
func (m *Manager) SaveTokens(tokens Tokens) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Save(tokens); err != nil {
		return err
	}
	m.tokens = tokens
	return nil
}

// AccessToken returns the persisted access token, falling back to the
// in-memory copy if the store is unreadable. Reading the store keeps a
// request that races a concurrent refresh on the newest pair.
func (m *Manager) AccessToken() string {
	if tokens, ok, err := m.store.Load(); err == nil && ok {
		return tokens.AccessToken
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokens.AccessToken
}

// Logout clears the local session. The local clear always runs first;
// when propagate is set the server is then told to invalidate the
// refresh token, and a failure there is logged but does not undo the
// logout.
func (m *Manager) Logout(ctx context.Context, propagate bool) error {
	m.mu.Lock()
	refreshToken := m.tokens.RefreshToken
	m.tokens = Tokens{}
	err := m.store.Clear()
	m.mu.Unlock()
	if err != nil {
		return err
	}

	if propagate && refreshToken != "" {
		if err := m.auth.Logout(ctx, refreshToken); err != nil {
			logger.Error("server logout failed", err)
		}
	}
	return nil
}

// RefreshTokens trades the refresh token for a new pair. Concurrent
// callers are coalesced into a single in-flight exchange; every waiter
// observes the same outcome. A failed exchange clears the session
// locally and is terminal.
func (m *Manager) RefreshTokens(ctx context.Context) error {
	_, err, _ := m.refresh.Do("refresh", func() (any, error) {
		m.mu.RLock()
		refreshToken := m.tokens.RefreshToken
		m.mu.RUnlock()
		if refreshToken == "" {
			if tokens, ok, err := m.store.Load(); err == nil && ok {
				refreshToken = tokens.RefreshToken
			}
		}
		if refreshToken == "" {
			return nil, ErrNotAuthenticated
		}

		fresh, err := m.auth.Refresh(ctx, refreshToken)
		if err != nil {
			logger.Error("token refresh failed", err)
			if logoutErr := m.Logout(ctx, false); logoutErr != nil {
				logger.Error("failed to clear session", logoutErr)
			}
			return nil, err
		}

		return nil, m.SaveTokens(Tokens{
			AccessToken:  fresh.AccessToken,
			RefreshToken: fresh.RefreshToken,
		})
	})
	return err
}
