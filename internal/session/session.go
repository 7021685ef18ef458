// Package session keeps the bearer token of the signed-in user, knows when it
// expires, and persists it sealed so a restart does not force a new login.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"kaskita/internal/logger"
	"kaskita/internal/models"
)

// ErrNoSession is returned by a Store that holds nothing.
var ErrNoSession = errors.New("no persisted session")

// Store persists the sealed session blob.
type Store interface {
	SaveSession(ctx context.Context, sealed string) error
	LoadSession(ctx context.Context) (string, error)
	ClearSession(ctx context.Context) error
}

// Session is the current authentication state.
type Session struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *models.User `json:"user,omitempty"`
}

// Manager owns the session. It is safe for concurrent use.
type Manager struct {
	mu        sync.RWMutex
	current   Session
	store     Store
	sealer    *Sealer
	now       func() time.Time
	listeners []func(reason string)
}

// NewManager creates a Manager. store and sealer may be nil, in which case
// the session lives in memory only.
func NewManager(store Store, sealer *Sealer) *Manager {
	return &Manager{store: store, sealer: sealer, now: time.Now}
}

// WithClock replaces the time source.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// OnCleared registers fn to run whenever the session is cleared, e.g. to
// send the user back to login.
func (m *Manager) OnCleared(fn func(reason string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Set stores a new access token. The expiry comes from expiresIn seconds when
// given, otherwise from the token's exp claim.
func (m *Manager) Set(ctx context.Context, token string, expiresIn int64) {
	expiresAt := time.Time{}
	if expiresIn > 0 {
		expiresAt = m.now().Add(time.Duration(expiresIn) * time.Second)
	} else if exp, ok := ExpiryFromToken(token); ok {
		expiresAt = exp
	}

	m.mu.Lock()
	m.current.AccessToken = token
	m.current.ExpiresAt = expiresAt
	snapshot := m.current
	m.mu.Unlock()

	m.persist(ctx, snapshot)
}

// SetUser attaches the signed-in profile.
func (m *Manager) SetUser(ctx context.Context, user *models.User) {
	m.mu.Lock()
	m.current.User = user
	snapshot := m.current
	m.mu.Unlock()

	m.persist(ctx, snapshot)
}

// Current returns a copy of the session.
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Token returns the access token and whether one is present.
func (m *Manager) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.AccessToken, m.current.AccessToken != ""
}

// Authenticated reports whether a token is held.
func (m *Manager) Authenticated() bool {
	_, ok := m.Token()
	return ok
}

// Expired reports whether the held token is past its expiry. A token with an
// unknown expiry is never treated as expired; the backend decides.
func (m *Manager) Expired() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current.AccessToken == "" || m.current.ExpiresAt.IsZero() {
		return false
	}
	return m.now().After(m.current.ExpiresAt)
}

// Clear forgets the session, wipes the persisted copy and notifies listeners.
func (m *Manager) Clear(ctx context.Context, reason string) {
	m.mu.Lock()
	hadToken := m.current.AccessToken != ""
	m.current = Session{}
	listeners := append([]func(string){}, m.listeners...)
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.ClearSession(ctx); err != nil {
			logger.Named("session").Warnw("failed to clear persisted session", "error", err)
		}
	}
	if !hadToken {
		return
	}
	logger.Named("session").Infow("session cleared", "reason", reason)
	for _, fn := range listeners {
		fn(reason)
	}
}

// Restore loads a persisted session, if any.
func (m *Manager) Restore(ctx context.Context) error {
	if m.store == nil || m.sealer == nil {
		return nil
	}
	blob, err := m.store.LoadSession(ctx)
	if errors.Is(err, ErrNoSession) {
		return nil
	}
	if err != nil {
		return err
	}
	plain, err := m.sealer.Open(blob)
	if err != nil {
		return err
	}
	var s Session
	if err := json.Unmarshal(plain, &s); err != nil {
		return err
	}

	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
	return nil
}

// persist writes the session through to the store. Failures only cost a
// login after restart, so they are logged and dropped.
func (m *Manager) persist(ctx context.Context, s Session) {
	if m.store == nil || m.sealer == nil {
		return
	}
	raw, err := json.Marshal(s)
	if err != nil {
		logger.Named("session").Warnw("failed to encode session", "error", err)
		return
	}
	sealed, err := m.sealer.Seal(raw)
	if err != nil {
		logger.Named("session").Warnw("failed to seal session", "error", err)
		return
	}
	if err := m.store.SaveSession(ctx, sealed); err != nil {
		logger.Named("session").Warnw("failed to persist session", "error", err)
	}
}

// ExpiryFromToken reads the exp claim of a JWT without verifying it. The
// backend verifies tokens; the client only needs to know when to refresh.
func ExpiryFromToken(token string) (time.Time, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
