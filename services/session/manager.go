package session

import (
	"context"
	"log"
	"sync"
	"time"

	"tenderdesk/models"
	"tenderdesk/services/portal"
)

// RefreshCooldown is the minimum time between backend liveness probes.
const RefreshCooldown = 5 * time.Minute

// API is the subset of the portal client the session manager depends on.
type API interface {
	Login(ctx context.Context, username, password string) (string, *models.User, error)
	Logout(ctx context.Context, token string) error
	Register(ctx context.Context, reg portal.RegisterRequest) (string, *models.User, error)
	Profile(ctx context.Context, token string) (*models.User, error)
	UpdateProfile(ctx context.Context, token string, update portal.ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, token, oldPassword, newPassword string) (string, error)
}

// Store persists the bearer token between runs. Load returns an empty token
// when nothing is stored.
type Store interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// State tracks where the session is in its lifecycle.
type State int

const (
	// StateUnknown means Bootstrap has not finished resolving the stored token.
	StateUnknown State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Manager owns the single source of truth for who is logged in. All state
// is mutex-guarded; the refresh cooldown check-and-update in particular is
// atomic with respect to concurrent callers.
type Manager struct {
	mu          sync.Mutex
	api         API
	store       Store
	now         func() time.Time
	token       string
	user        *models.User
	lastRefresh time.Time
	state       State
	listeners   []func(models.Session)
}

// NewManager creates a session manager backed by the given portal API and
// token store. The manager starts in StateUnknown until Bootstrap runs.
func NewManager(api API, store Store) *Manager {
	return &Manager{
		api:   api,
		store: store,
		now:   time.Now,
		state: StateUnknown,
	}
}

// Subscribe registers a listener invoked with a session snapshot after
// every state change.
func (m *Manager) Subscribe(fn func(models.Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Session returns a snapshot of the current session.
func (m *Manager) Session() models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// IsAuthenticated reports whether both a token and a resolved user are present.
func (m *Manager) IsAuthenticated() bool {
	return m.Session().IsAuthenticated()
}

// Token returns the current bearer token, or "" when logged out.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Login authenticates and establishes a session. Backend rejections are
// returned to the caller with the backend's own message.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	token, user, err := m.api.Login(ctx, username, password)
	if err != nil {
		return err
	}
	m.establish(token, user)
	return nil
}

// Register creates an account and establishes a session, with the same
// persistence contract as Login. Backend validation errors pass through
// verbatim.
func (m *Manager) Register(ctx context.Context, reg portal.RegisterRequest) error {
	token, user, err := m.api.Register(ctx, reg)
	if err != nil {
		return err
	}
	m.establish(token, user)
	return nil
}

// Logout clears the session. The backend invalidation call is best-effort:
// local state is cleared no matter what, and Logout never fails.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	token := m.token
	m.mu.Unlock()

	if token != "" {
		if err := m.api.Logout(ctx, token); err != nil {
			log.Printf("[session] backend logout failed (ignored): %v", err)
		}
	}
	m.clear()
}

// UpdateProfile patches the current user's profile and updates the cached user.
func (m *Manager) UpdateProfile(ctx context.Context, update portal.ProfileUpdate) error {
	user, err := m.api.UpdateProfile(ctx, m.Token(), update)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.user = user
	snapshot, listeners := m.snapshotLocked(), m.listenersLocked()
	m.mu.Unlock()

	notify(listeners, snapshot)
	return nil
}

// ChangePassword changes the password and, when the backend rotates the
// bearer token, replaces the stored token and resets the refresh clock.
func (m *Manager) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	rotated, err := m.api.ChangePassword(ctx, m.Token(), oldPassword, newPassword)
	if err != nil {
		return err
	}
	if rotated == "" {
		return nil
	}

	m.mu.Lock()
	m.token = rotated
	m.lastRefresh = m.now()
	if err := m.store.Save(rotated); err != nil {
		log.Printf("[session] persist rotated token failed: %v", err)
	}
	snapshot, listeners := m.snapshotLocked(), m.listenersLocked()
	m.mu.Unlock()

	notify(listeners, snapshot)
	return nil
}

// RefreshToken re-validates the session against the backend using the
// profile fetch as a liveness probe. It is rate-limited: calls within
// RefreshCooldown of the last successful refresh return false without any
// network request. A failed probe also returns false but leaves the
// session untouched; the caller decides what to do.
func (m *Manager) RefreshToken(ctx context.Context) bool {
	m.mu.Lock()

	if m.token == "" || m.now().Sub(m.lastRefresh) < RefreshCooldown {
		m.mu.Unlock()
		return false
	}

	// The lock is held across the probe so a concurrent caller cannot slip
	// past the cooldown check while this one is in flight.
	user, err := m.api.Profile(ctx, m.token)
	if err != nil {
		m.mu.Unlock()
		log.Printf("[session] refresh probe failed (ignored): %v", err)
		return false
	}

	m.user = user
	m.lastRefresh = m.now()
	m.state = StateAuthenticated
	snapshot, listeners := m.snapshotLocked(), m.listenersLocked()
	m.mu.Unlock()

	notify(listeners, snapshot)
	return true
}

// Bootstrap resolves a previously stored token into a live session. An
// expired token gets one refresh attempt; any failure on this path clears
// the session entirely and the manager comes up anonymous.
func (m *Manager) Bootstrap(ctx context.Context) {
	token, err := m.store.Load()
	if err != nil {
		log.Printf("[session] load stored token failed: %v", err)
		token = ""
	}
	if token == "" {
		m.clear()
		return
	}

	m.mu.Lock()
	m.token = token
	m.mu.Unlock()

	if CheckTokenValidity(token, m.now()) == TokenExpired {
		if !m.RefreshToken(ctx) {
			m.clear()
		}
		return
	}

	user, err := m.api.Profile(ctx, token)
	if err != nil {
		log.Printf("[session] bootstrap profile fetch failed: %v", err)
		m.clear()
		return
	}

	m.mu.Lock()
	m.user = user
	m.lastRefresh = m.now()
	m.state = StateAuthenticated
	snapshot, listeners := m.snapshotLocked(), m.listenersLocked()
	m.mu.Unlock()

	notify(listeners, snapshot)
}

// establish installs a fresh token+user pair after login or registration.
func (m *Manager) establish(token string, user *models.User) {
	m.mu.Lock()
	m.token = token
	m.user = user
	m.lastRefresh = m.now()
	m.state = StateAuthenticated
	if err := m.store.Save(token); err != nil {
		log.Printf("[session] persist token failed: %v", err)
	}
	snapshot, listeners := m.snapshotLocked(), m.listenersLocked()
	m.mu.Unlock()

	notify(listeners, snapshot)
}

// clear drops all session state and the stored token.
func (m *Manager) clear() {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.lastRefresh = time.Time{}
	m.state = StateAnonymous
	if err := m.store.Clear(); err != nil {
		log.Printf("[session] clear stored token failed: %v", err)
	}
	snapshot, listeners := m.snapshotLocked(), m.listenersLocked()
	m.mu.Unlock()

	notify(listeners, snapshot)
}

func (m *Manager) snapshotLocked() models.Session {
	return models.Session{
		Token:       m.token,
		User:        m.user,
		LastRefresh: m.lastRefresh,
	}
}

func (m *Manager) listenersLocked() []func(models.Session) {
	out := make([]func(models.Session), len(m.listeners))
	copy(out, m.listeners)
	return out
}

func notify(listeners []func(models.Session), snapshot models.Session) {
	for _, fn := range listeners {
		fn(snapshot)
	}
}
