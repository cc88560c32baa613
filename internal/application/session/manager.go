// Package session owns the per-browser bearer token and the profile it resolves to.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"lms/internal/adapters/lmsapi"
	"lms/internal/domain/user"
)

// State is the authentication state of one browser.
type State int

const (
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

// Login result messages
const (
	MsgLoginSuccess   = "Login successful!"
	MsgLoginFailed    = "Login failed"
	MsgLoginTransport = "An error occurred."
)

// API is the slice of the LMS API the session needs.
type API interface {
	Login(ctx context.Context, email, password string) (string, error)
	GetUser(ctx context.Context, token, id string) (user.User, error)
}

// TokenStore persists one token per browser id.
type TokenStore interface {
	Get(ctx context.Context, browserID string) (string, error)
	Save(ctx context.Context, browserID, token string) error
	Delete(ctx context.Context, browserID string) error
}

// Result is the outcome of Login. It is never an error.
type Result struct {
	Success bool
	Message string
}

// Snapshot is a consistent read of a manager's state.
type Snapshot struct {
	State   State
	Token   string
	Profile *user.User
	Loading bool
}

// IsAuthenticated reports whether a token is held.
func (s Snapshot) IsAuthenticated() bool {
	return s.State == StateAuthenticated && s.Token != ""
}

// IsInstructor reports whether the resolved profile is an instructor.
func (s Snapshot) IsInstructor() bool {
	return s.Profile != nil && s.Profile.IsInstructor()
}

// IsStudent reports whether the resolved profile is a student.
func (s Snapshot) IsStudent() bool {
	return s.Profile != nil && s.Profile.IsStudent()
}

// UserID returns the resolved profile id, or "".
func (s Snapshot) UserID() string {
	if s.Profile == nil {
		return ""
	}
	return s.Profile.ID
}

// Manager is the session of one browser.
// Operations (Init, Login, Logout, Invalidate) are serialized; reads never block on the network.
type Manager struct {
	browserID string
	api       API
	store     TokenStore
	now       func() time.Time

	op sync.Mutex // serializes operations

	mu       sync.RWMutex
	state    State
	token    string
	profile  *user.User
	loading  bool
	initedAt time.Time
}

// NewManager creates a manager in StateUnknown. Call Init before use.
func NewManager(browserID string, api API, store TokenStore) *Manager {
	return &Manager{
		browserID: browserID,
		api:       api,
		store:     store,
		now:       time.Now,
		state:     StateUnknown,
	}
}

// Init restores the persisted token, if any, and resolves its profile.
// PRE: none
// POST: state is StateAuthenticated with a profile, or StateAnonymous with no persisted token
func (m *Manager) Init(ctx context.Context) {
	m.op.Lock()
	defer m.op.Unlock()
	m.init(ctx)
}

// ensureInit runs Init unless it completed less than maxAge ago.
// Concurrent callers for a fresh manager initialize it once.
func (m *Manager) ensureInit(ctx context.Context, maxAge time.Duration) {
	m.op.Lock()
	defer m.op.Unlock()
	if at := m.initializedAt(); !at.IsZero() && m.now().Sub(at) < maxAge {
		return
	}
	m.init(ctx)
}

func (m *Manager) init(ctx context.Context) {
	m.setLoading(true)
	defer m.setLoading(false)

	token, err := m.store.Get(ctx, m.browserID)
	if err != nil {
		slog.Error("auth_event", "event", "token_read_failed", "browser", m.browserID, "error", err)
	}
	if token == "" {
		m.set(StateAnonymous, "", nil)
		m.markInit()
		return
	}
	if _, err := m.resolve(ctx, token); err != nil {
		slog.Info("auth_event", "event", "session_restore_failed", "browser", m.browserID, "error", err)
		m.clear(ctx)
	}
	m.markInit()
}

// Login submits credentials and, on success, persists the token and resolves the profile.
// PRE: none
// POST: Success implies StateAuthenticated with a profile and a persisted token;
// failure implies StateAnonymous with no persisted token
func (m *Manager) Login(ctx context.Context, email, password string) Result {
	m.op.Lock()
	defer m.op.Unlock()

	m.setLoading(true)
	defer m.setLoading(false)

	token, err := m.api.Login(ctx, email, password)
	if err != nil {
		m.clear(ctx)
		if lmsapi.IsTransport(err) {
			slog.Warn("auth_event", "event", "login_error", "email", email, "error", err)
			return Result{Message: MsgLoginTransport}
		}
		slog.Info("auth_event", "event", "login_failed", "email", email, "status", lmsapi.StatusCode(err))
		return Result{Message: lmsapi.MessageOr(err, MsgLoginFailed)}
	}

	// A token that cannot be persisted would be lost on the next reload
	if err := m.store.Save(ctx, m.browserID, token); err != nil {
		slog.Error("auth_event", "event", "token_save_failed", "browser", m.browserID, "error", err)
		m.clear(ctx)
		return Result{Message: MsgLoginTransport}
	}
	p, err := m.resolve(ctx, token)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "profile", "error", err)
		m.clear(ctx)
		return Result{Message: MsgLoginFailed}
	}
	m.markInit()

	slog.Info("auth_event", "event", "login_success", "email", email, "role", p.Role)
	return Result{Success: true, Message: MsgLoginSuccess}
}

// Logout forgets the token locally. No network call is made.
// POST: StateAnonymous, no persisted token
func (m *Manager) Logout(ctx context.Context) {
	m.op.Lock()
	defer m.op.Unlock()
	m.clear(ctx)
	slog.Info("auth_event", "event", "logout", "browser", m.browserID)
}

// reset forgets the token without logging a logout.
func (m *Manager) reset(ctx context.Context) {
	m.op.Lock()
	defer m.op.Unlock()
	m.clear(ctx)
}

// Invalidate drops a token the API has rejected; it behaves like Logout.
// token is the credential the rejected call used. A different current token
// means a newer login already replaced it, so nothing is dropped.
func (m *Manager) Invalidate(ctx context.Context, token string) {
	m.op.Lock()
	defer m.op.Unlock()

	m.mu.RLock()
	current := m.token
	m.mu.RUnlock()
	if current != token {
		return
	}
	m.clear(ctx)
	slog.Info("auth_event", "event", "token_rejected", "browser", m.browserID)
}

// Snapshot returns the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := Snapshot{State: m.state, Token: m.token, Loading: m.loading}
	if m.profile != nil {
		p := *m.profile
		s.Profile = &p
	}
	return s
}

// Token returns the held bearer token, or "".
func (m *Manager) Token() string { return m.Snapshot().Token }

// IsAuthenticated reports whether a token is held.
func (m *Manager) IsAuthenticated() bool { return m.Snapshot().IsAuthenticated() }

// IsLoading reports whether Init or Login is in flight.
func (m *Manager) IsLoading() bool { return m.Snapshot().Loading }

// Profile returns the resolved user, if any.
func (m *Manager) Profile() (user.User, bool) {
	s := m.Snapshot()
	if s.Profile == nil {
		return user.User{}, false
	}
	return *s.Profile, true
}

// resolve decodes token and fetches its profile.
// POST: on success the manager holds token and profile in StateAuthenticated
func (m *Manager) resolve(ctx context.Context, token string) (user.User, error) {
	claims, err := DecodeToken(token, m.now())
	if err != nil {
		return user.User{}, err
	}
	p, err := m.api.GetUser(ctx, token, claims.UserID)
	if err != nil {
		return user.User{}, err
	}
	m.set(StateAuthenticated, token, &p)
	return p, nil
}

// clear deletes the persisted token and resets to StateAnonymous.
func (m *Manager) clear(ctx context.Context) {
	if err := m.store.Delete(ctx, m.browserID); err != nil {
		slog.Error("auth_event", "event", "token_delete_failed", "browser", m.browserID, "error", err)
	}
	m.set(StateAnonymous, "", nil)
}

func (m *Manager) set(state State, token string, profile *user.User) {
	m.mu.Lock()
	m.state, m.token, m.profile = state, token, profile
	m.mu.Unlock()
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
}

func (m *Manager) markInit() {
	m.mu.Lock()
	m.initedAt = m.now()
	m.mu.Unlock()
}

// initializedAt returns when Init last completed (zero if never).
func (m *Manager) initializedAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initedAt
}
