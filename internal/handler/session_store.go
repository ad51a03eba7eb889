package handler

import (
	"sync"
	"time"

	"quizzify/internal/domain"
	"quizzify/internal/util"
)

// QuizSession pairs a generated bank with the navigation cursor the host owns.
type QuizSession struct {
	ID        string
	Topic     string
	Bank      *domain.QuestionBank
	Cursor    int
	CreatedAt time.Time
}

// SessionStore keeps quiz sessions in process memory. Sessions do not survive a restart.
type SessionStore struct {
	mu          sync.RWMutex
	sessions    map[string]*QuizSession
	order       []string
	maxSessions int
}

// NewSessionStore creates a store that evicts the oldest session beyond maxSessions.
// maxSessions <= 0 means unbounded.
func NewSessionStore(maxSessions int) *SessionStore {
	return &SessionStore{
		sessions:    make(map[string]*QuizSession),
		maxSessions: maxSessions,
	}
}

// Create registers a new session with the cursor on the first question.
func (s *SessionStore) Create(topic string, bank *domain.QuestionBank) QuizSession {
	session := &QuizSession{
		ID:        util.NewULID(),
		Topic:     topic,
		Bank:      bank,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	s.order = append(s.order, session.ID)
	for s.maxSessions > 0 && len(s.order) > s.maxSessions {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.sessions, oldest)
	}
	return *session
}

// Get returns a snapshot of the session or NOT_FOUND.
func (s *SessionStore) Get(id string) (QuizSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return QuizSession{}, domain.NewNotFoundError("quiz session not found").WithContext("id", id)
	}
	return *session, nil
}

// MoveCursor applies move to the current cursor under the store lock and
// stores the result. The cursor is left untouched when move fails.
func (s *SessionStore) MoveCursor(id string, move func(cursor, total int) (int, error)) (QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return QuizSession{}, domain.NewNotFoundError("quiz session not found").WithContext("id", id)
	}
	next, err := move(session.Cursor, session.Bank.Len())
	if err != nil {
		return *session, err
	}
	session.Cursor = next
	return *session, nil
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
