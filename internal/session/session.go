// Package session tracks per-user conversation state between updates.
package session

import (
	"sync"

	"github.com/flivergg/Bot-Weather/internal/domain"
)

// Session is the transient conversation state for one user. The zero
// value is an idle session.
type Session struct {
	State domain.ConversationState
	// RouteStart holds the start city between the two route-flow steps.
	RouteStart string
}

// Store is the per-user session store. Implementations must be safe for
// concurrent use; the in-memory one below is the default, but handlers
// only see this interface so a persistent backend can be swapped in.
type Store interface {
	Get(userID int64) Session
	Set(userID int64, s Session)
	Clear(userID int64)
}

// Memory is an in-memory Store backed by a mutex-guarded map.
type Memory struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

// NewMemory creates an empty in-memory session store.
func NewMemory() *Memory {
	return &Memory{sessions: make(map[int64]Session)}
}

func (m *Memory) Get(userID int64) Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[userID]
}

func (m *Memory) Set(userID int64, s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = s
}

func (m *Memory) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
