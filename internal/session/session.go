package session

import (
	"sort"
	"sync"
	"time"

	"accommodation_portal/internal/logger"
	"accommodation_portal/internal/repositories"

	"gorm.io/gorm"
)

// Session is the storage of one browser. Writes go straight to the database so
// a redirect issued right after a write already sees it.
type Session struct {
	id        string
	expiresAt time.Time

	mu    sync.RWMutex
	items map[string]string
	err   error

	db   *gorm.DB
	repo repositories.SessionRepository
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) ExpiresAt() time.Time {
	return s.expiresAt
}

func (s *Session) GetItem(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

func (s *Session) SetItem(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	if err := s.repo.SetItem(s.db, s.id, key, value); err != nil {
		s.fail(err, key)
	}
}

func (s *Session) RemoveItem(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[key]; !ok {
		return
	}
	delete(s.items, key)
	if err := s.repo.DeleteItem(s.db, s.id, key); err != nil {
		s.fail(err, key)
	}
}

// Keys lists the stored keys in sorted order.
func (s *Session) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Err returns the first write that failed to reach the database.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Session) fail(err error, key string) {
	if s.err == nil {
		s.err = err
	}
	logger.CtxWithError(s.db.Statement.Context, "session write failed", err, "session_id", s.id, "key", key)
}
