package admin

import (
	"ProgJulia/entity"
	"sync"
	"time"
)

// Session is the active command of one chat.
type Session struct {
	ChatID     int64
	Command    *Command
	Attributes *Attributes
	StartedAt  time.Time

	mu         sync.Mutex
	index      int
	lastAction time.Time
}

func NewSession(chatID int64, cmd *Command) *Session {
	now := time.Now()
	return &Session{
		ChatID:     chatID,
		Command:    cmd,
		Attributes: NewAttributes(),
		StartedAt:  now,
		lastAction: now,
	}
}

// Current returns nil once the chain is exhausted.
func (s *Session) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Command.State(s.index)
}

func (s *Session) Next() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index++
	return s.Command.State(s.index)
}

func (s *Session) Touch() {
	s.mu.Lock()
	s.lastAction = time.Now()
	s.mu.Unlock()
}

func (s *Session) Idle(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastAction)
}

func (s *Session) Info() entity.SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return entity.SessionInfo{
		ChatID:     s.ChatID,
		Command:    s.Command.Name,
		Step:       s.index,
		Steps:      len(s.Command.States),
		StartedAt:  s.StartedAt,
		LastAction: s.lastAction,
	}
}

// SessionStore keeps at most one session per chat.
type SessionStore interface {
	Get(chatID int64) *Session
	Put(s *Session)
	Delete(chatID int64) bool
	All() []*Session
	// Expire removes sessions idle for longer than idle and returns them.
	Expire(idle time.Duration) []*Session
}

type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[int64]*Session)}
}

func (m *MemorySessionStore) Get(chatID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[chatID]
}

func (m *MemorySessionStore) Put(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ChatID] = s
}

func (m *MemorySessionStore) Delete(chatID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[chatID]
	delete(m.sessions, chatID)
	return ok
}

func (m *MemorySessionStore) All() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		list = append(list, s)
	}
	return list
}

func (m *MemorySessionStore) Expire(idle time.Duration) []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	var expired []*Session
	for id, s := range m.sessions {
		if s.Idle(now) > idle {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	return expired
}
