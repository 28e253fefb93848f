package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"vocab-quiz-service/internal/app"
)

// SessionStore is a Redis-aware implementation of SessionRepository.
// Sessions live in a local map because their countdown runs in-process;
// Redis holds a liveness marker with the active session id of each user, so a
// session taken over by another instance stops being served here.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Put(userID string, session *app.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = session
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(userID), session.ID(), s.ttl).Err()
}

// Get returns the local session unless the marker names a different session.
// A missing marker or an unreachable Redis keeps the local session.
func (s *SessionStore) Get(userID string) (*app.Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	owner, err := s.client.Get(context.Background(), s.key(userID)).Result()
	if err != nil {
		return session, true
	}
	if owner != session.ID() {
		return nil, false
	}
	return session, true
}

func (s *SessionStore) DeleteIfCurrent(userID, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	if !ok || session.ID() != sessionID {
		return
	}
	delete(s.sessions, userID)
	_ = s.client.Del(context.Background(), s.key(userID)).Err()
}

func (s *SessionStore) key(userID string) string {
	return "quiz:session:" + userID
}
