// Package session keeps per-browser key/value storage in the portal database.
// A Session stands in for the browser storage the API client reads its
// credentials from.
package session

import (
	"context"
	"errors"
	"time"

	"accommodation_portal/internal/logger"
	"accommodation_portal/internal/models"
	"accommodation_portal/internal/repositories"
	"accommodation_portal/pkg/apperrors"

	"gorm.io/gorm"
)

const DefaultTTL = 7 * 24 * time.Hour

type Store struct {
	db   *gorm.DB
	repo repositories.SessionRepository
	ttl  time.Duration
	now  func() time.Time
}

func NewStore(db *gorm.DB, repo repositories.SessionRepository, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		db:   db,
		repo: repo,
		ttl:  ttl,
		now:  time.Now,
	}
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create starts an empty session.
func (s *Store) Create(ctx context.Context) (*Session, error) {
	record := &models.Session{ExpiresAt: s.now().Add(s.ttl)}
	if err := s.repo.Create(s.db.WithContext(ctx), record); err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	logger.CtxDebug(ctx, "session created", "session_id", record.ID)
	return s.bind(ctx, record), nil
}

// Load returns a live session. Expired or unknown ids yield apperrors.ErrSessionExpired.
// Sessions past half their lifetime get their expiry extended.
func (s *Store) Load(ctx context.Context, id string) (*Session, error) {
	db := s.db.WithContext(ctx)
	now := s.now()

	record, err := s.repo.FindActive(db, id, now)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, apperrors.ErrSessionExpired
		}
		return nil, apperrors.DatabaseError(err)
	}

	if record.ExpiresAt.Sub(now) < s.ttl/2 {
		expiresAt := now.Add(s.ttl)
		if err := s.repo.Touch(db, record.ID, expiresAt); err != nil {
			logger.CtxWithError(ctx, "failed to extend session", err, "session_id", record.ID)
		} else {
			record.ExpiresAt = expiresAt
		}
	}
	return s.bind(ctx, record), nil
}

// LoadOrCreate loads id when it names a live session and starts a new one otherwise.
// created reports whether a new cookie must be issued.
func (s *Store) LoadOrCreate(ctx context.Context, id string) (sess *Session, created bool, err error) {
	if id != "" {
		sess, err = s.Load(ctx, id)
		if err == nil {
			return sess, false, nil
		}
		if !errors.Is(err, apperrors.ErrSessionExpired) {
			return nil, false, err
		}
	}
	sess, err = s.Create(ctx)
	return sess, err == nil, err
}

func (s *Store) Destroy(ctx context.Context, id string) error {
	if err := s.repo.Delete(s.db.WithContext(ctx), id); err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}

// Purge deletes every expired session.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	deleted, err := s.repo.DeleteExpired(s.db.WithContext(ctx), s.now())
	if err != nil {
		return 0, apperrors.DatabaseError(err)
	}
	return deleted, nil
}

func (s *Store) bind(ctx context.Context, record *models.Session) *Session {
	items := make(map[string]string, len(record.Items))
	for _, item := range record.Items {
		items[item.Key] = item.Value
	}
	return &Session{
		id:        record.ID,
		expiresAt: record.ExpiresAt,
		items:     items,
		db:        s.db.WithContext(ctx),
		repo:      s.repo,
	}
}
