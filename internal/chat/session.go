// Package chat holds the session registry and the service that
// orchestrates a chat turn against the language model.
package chat

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTurnNotFound    = errors.New("turn not found in session")
)

// Turn is one user-message/bot-reply pair in a session.
type Turn struct {
	ID        string    `json:"id"`
	Company   string    `json:"company"`
	User      string    `json:"user"`
	Bot       string    `json:"bot"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the explicit per-client conversation context: one message
// list per company, plus the last company the client talked to.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu          sync.Mutex
	histories   map[string][]Turn
	lastCompany string
}

func (s *Session) AppendTurn(turn Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histories[turn.Company] = append(s.histories[turn.Company], turn)
	s.lastCompany = turn.Company
}

// History returns a copy of the turn list for a company.
func (s *Session) History(company string) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := s.histories[company]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// Clear empties the history for one company, keeping the session alive.
func (s *Session) Clear(company string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.histories, company)
}

// FindTurn looks a turn up by ID within a company's history.
func (s *Session) FindTurn(company, turnID string) (Turn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, turn := range s.histories[company] {
		if turn.ID == turnID {
			return turn, true
		}
	}
	return Turn{}, false
}

// LastCompany returns the company of the most recent turn.
func (s *Session) LastCompany() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCompany
}

// SessionManager tracks live sessions by ID.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

// Create registers a new session with a fresh UUID.
func (m *SessionManager) Create() *Session {
	session := &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		histories: make(map[string][]Turn),
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	return session
}

// Get returns the session for an ID, or ErrSessionNotFound.
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}
