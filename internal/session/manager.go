// Package session keeps open booking dialogs in memory, keyed by visitor.
// A visitor has at most one open dialog; opening a new one discards the
// previous draft, the same way closing and reopening the modal does.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/hotel-booking/internal/wizard"
)

// ErrNotFound is returned for unknown, expired or foreign session ids.
var ErrNotFound = errors.New("wizard session not found")

// Session is a copy of one dialog's state.
type Session struct {
	ID        string       `json:"id"`
	VisitorID string       `json:"-"`
	State     wizard.State `json:"state"`
}

type entry struct {
	mu      sync.Mutex // serialises actions on one dialog
	id      string
	visitor string
	state   wizard.State
	touched atomic.Int64
}

// Manager owns all open dialogs.
type Manager struct {
	mu        sync.RWMutex
	sessions  map[string]*entry // session id -> entry
	byVisitor map[string]string // visitor id -> session id
	ttl       time.Duration
	now       func() time.Time
}

// NewManager creates a manager.  Sessions idle longer than ttl are dropped
// by Sweep; a zero ttl keeps them forever.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions:  make(map[string]*entry),
		byVisitor: make(map[string]string),
		ttl:       ttl,
		now:       time.Now,
	}
}

// Open starts a dialog for the visitor with the given initial state,
// replacing any dialog the visitor already had.
func (m *Manager) Open(visitorID string, st wizard.State) Session {
	e := &entry{id: uuid.NewString(), visitor: visitorID, state: st}
	e.touched.Store(m.now().UnixNano())

	m.mu.Lock()
	if old, ok := m.byVisitor[visitorID]; ok {
		delete(m.sessions, old)
	}
	m.sessions[e.id] = e
	m.byVisitor[visitorID] = e.id
	m.mu.Unlock()

	return Session{ID: e.id, VisitorID: visitorID, State: st}
}

func (m *Manager) lookup(visitorID, id string) *entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok || e.visitor != visitorID {
		return nil
	}
	return e
}

// Get returns the visitor's dialog by id.
func (m *Manager) Get(visitorID, id string) (Session, error) {
	e := m.lookup(visitorID, id)
	if e == nil {
		return Session{}, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.touched.Store(m.now().UnixNano())
	return Session{ID: e.id, VisitorID: e.visitor, State: e.state}, nil
}

// Update runs fn against the dialog's current state while holding the
// dialog's lock, so two requests on the same dialog never interleave.
// The returned state is stored only when fn succeeds; the session
// returned always reflects what is stored.
func (m *Manager) Update(visitorID, id string, fn func(wizard.State) (wizard.State, error)) (Session, error) {
	e := m.lookup(visitorID, id)
	if e == nil {
		return Session{}, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := fn(e.state)
	if err == nil {
		e.state = next
	}
	e.touched.Store(m.now().UnixNano())
	return Session{ID: e.id, VisitorID: e.visitor, State: e.state}, err
}

// Close drops the visitor's dialog, if any.
func (m *Manager) Close(visitorID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.byVisitor[visitorID]; ok {
		delete(m.sessions, id)
		delete(m.byVisitor, visitorID)
	}
}

// Len reports the number of open dialogs.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes dialogs idle for longer than the ttl and returns how many
// were removed.
func (m *Manager) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.ttl).UnixNano()

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, e := range m.sessions {
		if e.touched.Load() >= cutoff {
			continue
		}
		delete(m.sessions, id)
		if m.byVisitor[e.visitor] == id {
			delete(m.byVisitor, e.visitor)
		}
		removed++
	}
	return removed
}

// Run sweeps every interval until ctx is cancelled.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if m.ttl <= 0 || interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Sweep()
		}
	}
}
