package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultReinitAfter is how long a manager's state is trusted before Init runs again.
// Managers idle for longer are dropped from the registry.
const DefaultReinitAfter = 24 * time.Hour

// sweepEvery is the minimum gap between scans for idle managers.
const sweepEvery = time.Hour

// browserIDBytes is the entropy of a browser id; it is hex-encoded.
const browserIDBytes = 32

// NewBrowserID returns a fresh random browser id.
func NewBrowserID() (string, error) {
	b := make([]byte, browserIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("browser id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// ValidBrowserID accepts only ids NewBrowserID could have generated.
func ValidBrowserID(id string) bool {
	if len(id) != 2*browserIDBytes {
		return false
	}
	_, err := hex.DecodeString(id)
	return err == nil
}

// Registry holds the Manager of every signed-in browser.
// INVARIANT: only authenticated managers are retained; anonymous browsers
// get a throwaway manager per request
type Registry struct {
	api         API
	store       TokenStore
	reinitAfter time.Duration
	now         func() time.Time

	mu        sync.Mutex
	managers  map[string]*Manager
	lastSweep time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(api API, store TokenStore) *Registry {
	return &Registry{
		api:         api,
		store:       store,
		reinitAfter: DefaultReinitAfter,
		now:         time.Now,
		managers:    make(map[string]*Manager),
	}
}

func (r *Registry) newManager(browserID string) *Manager {
	m := NewManager(browserID, r.api, r.store)
	m.now = r.now
	return m
}

// Get returns the browser's manager, restoring its persisted token on first use.
// PRE: browserID is non-empty
// POST: the returned manager is out of StateUnknown
// POST: the manager stays registered only while it is authenticated
func (r *Registry) Get(ctx context.Context, browserID string) *Manager {
	r.mu.Lock()
	r.sweepLocked()
	m, ok := r.managers[browserID]
	if !ok {
		m = r.newManager(browserID)
		r.managers[browserID] = m
	}
	r.mu.Unlock()

	m.ensureInit(ctx, r.reinitAfter)
	if !m.IsAuthenticated() {
		r.forget(browserID, m)
	}
	return m
}

// NewAnonymous returns an unregistered anonymous manager for a browser id
// that was minted on this request and so cannot have a stored token.
func (r *Registry) NewAnonymous(browserID string) *Manager {
	m := r.newManager(browserID)
	m.set(StateAnonymous, "", nil)
	m.markInit()
	return m
}

// Login signs a browser in under a freshly minted id.
// The id the browser presented is signed out whatever the outcome, so an id
// handed out before authentication never carries the authenticated session.
// POST: on success returns the new id, which holds the manager and the persisted token
// POST: on failure returns "" and both ids are anonymous with nothing persisted
func (r *Registry) Login(ctx context.Context, browserID, email, password string) (string, Result) {
	defer r.drop(ctx, browserID)

	newID, err := NewBrowserID()
	if err != nil {
		slog.Error("auth_event", "event", "login_error", "email", email, "error", err)
		return "", Result{Message: MsgLoginTransport}
	}
	m := r.newManager(newID)
	res := m.Login(ctx, email, password)
	if !res.Success {
		return "", res
	}

	r.mu.Lock()
	r.managers[newID] = m
	r.mu.Unlock()
	slog.Info("auth_event", "event", "browser_rotated", "from", browserID, "to", newID)
	return newID, res
}

// drop signs browserID out and forgets its manager.
func (r *Registry) drop(ctx context.Context, browserID string) {
	r.mu.Lock()
	m, ok := r.managers[browserID]
	delete(r.managers, browserID)
	r.mu.Unlock()

	if ok {
		m.reset(ctx)
		return
	}
	if err := r.store.Delete(ctx, browserID); err != nil {
		slog.Error("auth_event", "event", "token_delete_failed", "browser", browserID, "error", err)
	}
}

// forget unregisters m unless another manager already replaced it.
func (r *Registry) forget(browserID string, m *Manager) {
	r.mu.Lock()
	if r.managers[browserID] == m {
		delete(r.managers, browserID)
	}
	r.mu.Unlock()
}

// sweepLocked drops managers whose last Init is older than reinitAfter.
// A dropped browser is restored from the store on its next request.
// PRE: r.mu is held
func (r *Registry) sweepLocked() {
	now := r.now()
	if now.Sub(r.lastSweep) < sweepEvery {
		return
	}
	r.lastSweep = now
	for id, m := range r.managers {
		if at := m.initializedAt(); !at.IsZero() && now.Sub(at) >= r.reinitAfter {
			delete(r.managers, id)
		}
	}
}

// Len returns the number of registered browsers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.managers)
}
