package session

import "sync"

// Manager keeps the live sessions for the rest surface. In-memory only,
// nothing survives a restart.
type Manager struct {
	ai Completer

	mx       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(ai Completer) *Manager {
	return &Manager{
		ai:       ai,
		sessions: map[string]*Session{},
	}
}

func (m *Manager) Create() *Session {
	s := New(m.ai)
	m.mx.Lock()
	m.sessions[s.ID()] = s
	m.mx.Unlock()
	return s
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mx.RLock()
	defer m.mx.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *Manager) Remove(id string) {
	m.mx.Lock()
	delete(m.sessions, id)
	m.mx.Unlock()
}

func (m *Manager) Count() int {
	m.mx.RLock()
	defer m.mx.RUnlock()
	return len(m.sessions)
}
