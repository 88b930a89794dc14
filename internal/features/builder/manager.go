package builder

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("builder session not found")

// SessionManager holds all live builder sessions in memory. Sessions
// are per-process; a restart loses unsaved drafts.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   *zap.Logger
}

func NewSessionManager(logger *zap.Logger) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

func (m *SessionManager) Create(orgID primitive.ObjectID) *Session {
	sess := &Session{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		Step:           StepObject,
		CreatedAt:      time.Now(),
		LastActive:     time.Now(),
		subs:           make(map[chan PreviewEvent]struct{}),
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()
	return sess
}

// Get returns a session only to its own organization.
func (m *SessionManager) Get(orgID primitive.ObjectID, id string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || sess.OrganizationID != orgID {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (m *SessionManager) Remove(id string) {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if ok {
		sess.mu.Lock()
		sess.closeLocked()
		sess.mu.Unlock()
	}
}

// SweepExpired drops sessions idle beyond ttl and returns how many were
// removed.
func (m *SessionManager) SweepExpired(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	m.mu.Lock()
	var expired []*Session
	for id, sess := range m.sessions {
		if sess.LastActive.Before(cutoff) {
			expired = append(expired, sess)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, sess := range expired {
		sess.mu.Lock()
		sess.closeLocked()
		sess.mu.Unlock()
	}
	if len(expired) > 0 {
		m.logger.Info("swept idle builder sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}

func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
