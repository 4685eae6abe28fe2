// Package notifications serves each user's notification feed, stored in the
// portal database and keyed by the backend user id.
package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"accommodation_portal/internal/logger"
	"accommodation_portal/internal/models"
	"accommodation_portal/internal/repositories"
	"accommodation_portal/pkg/apperrors"

	"gorm.io/gorm"
)

// Filter values accepted besides a notification type.
const (
	FilterAll    = "all"
	FilterUnread = "unread"
	FilterRead   = "read"
)

type Filter struct {
	Status string `form:"filter"`
	Search string `form:"search"`
}

func (f Filter) criteria() repositories.NotificationCriteria {
	c := repositories.NotificationCriteria{Search: strings.TrimSpace(f.Search)}
	switch status := strings.ToLower(strings.TrimSpace(f.Status)); status {
	case "", FilterAll:
	case FilterUnread:
		c.UnreadOnly = true
	case FilterRead:
		c.ReadOnly = true
	default:
		c.Type = status
	}
	return c
}

// Feed is one rendered page of notifications.
type Feed struct {
	Items       []models.Notification
	Total       int64
	UnreadCount int64
	Filter      Filter
}

type Service struct {
	db   *gorm.DB
	repo repositories.NotificationRepository
	now  func() time.Time
}

func NewService(db *gorm.DB, repo repositories.NotificationRepository) *Service {
	return &Service{db: db, repo: repo, now: time.Now}
}

func UserKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func (s *Service) List(ctx context.Context, userID int64, filter Filter) (*Feed, error) {
	if err := s.EnsureSeeded(ctx, userID); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	key := UserKey(userID)

	items, total, err := s.repo.FindUserNotifications(db, key, filter.criteria())
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	unread, err := s.repo.CountUnread(db, key)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return &Feed{Items: items, Total: total, UnreadCount: unread, Filter: filter}, nil
}

// Recent returns the newest notifications for the header dropdown.
func (s *Service) Recent(ctx context.Context, userID int64, limit int) ([]models.Notification, error) {
	if err := s.EnsureSeeded(ctx, userID); err != nil {
		return nil, err
	}
	items, _, err := s.repo.FindUserNotifications(s.db.WithContext(ctx), UserKey(userID), repositories.NotificationCriteria{
		Page:     1,
		PageSize: limit,
	})
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return items, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	count, err := s.repo.CountUnread(s.db.WithContext(ctx), UserKey(userID))
	if err != nil {
		return 0, apperrors.DatabaseError(err)
	}
	return count, nil
}

func (s *Service) Notify(ctx context.Context, userID int64, kind models.NotificationType, title, message string, meta models.NotificationMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return apperrors.InternalError(err)
	}
	n := &models.Notification{
		UserID:  UserKey(userID),
		Type:    kind,
		Title:   title,
		Message: message,
		Data:    data,
	}
	if err := s.repo.Create(s.db.WithContext(ctx), n); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *Service) MarkAsRead(ctx context.Context, userID int64, id string) error {
	if err := s.repo.MarkAsRead(s.db.WithContext(ctx), UserKey(userID), id); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	n, err := s.repo.MarkAllAsRead(s.db.WithContext(ctx), UserKey(userID))
	if err != nil {
		return 0, apperrors.DatabaseError(err)
	}
	return n, nil
}

func (s *Service) MarkManyAsRead(ctx context.Context, userID int64, ids []string) (int64, error) {
	n, err := s.repo.MarkManyAsRead(s.db.WithContext(ctx), UserKey(userID), ids)
	if err != nil {
		return 0, apperrors.DatabaseError(err)
	}
	return n, nil
}

func (s *Service) Delete(ctx context.Context, userID int64, id string) error {
	if err := s.repo.Delete(s.db.WithContext(ctx), UserKey(userID), id); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *Service) DeleteMany(ctx context.Context, userID int64, ids []string) (int64, error) {
	n, err := s.repo.DeleteMany(s.db.WithContext(ctx), UserKey(userID), ids)
	if err != nil {
		return 0, apperrors.DatabaseError(err)
	}
	return n, nil
}

// PurgeRead drops read notifications older than retention.
func (s *Service) PurgeRead(ctx context.Context, retention time.Duration) (int64, error) {
	n, err := s.repo.DeleteReadBefore(s.db.WithContext(ctx), s.now().Add(-retention))
	if err != nil {
		return 0, apperrors.DatabaseError(err)
	}
	return n, nil
}

// EnsureSeeded gives a user's feed the default notices the first time it is read.
func (s *Service) EnsureSeeded(ctx context.Context, userID int64) error {
	key := UserKey(userID)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		first, err := s.repo.MarkSeeded(tx, key)
		if err != nil || !first {
			return err
		}
		return s.repo.CreateBatch(tx, defaultNotices(key, s.now()))
	})
	if err != nil {
		logger.CtxWithError(ctx, "failed to seed notifications", err, "user_id", userID)
		return apperrors.DatabaseError(err)
	}
	return nil
}

func (s *Service) mapError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotificationNotFound):
		return apperrors.ErrNotificationNotFound
	case errors.Is(err, repositories.ErrInvalidNotificationData):
		return apperrors.ValidationError(map[string]string{"notification": err.Error()})
	}
	return apperrors.DatabaseError(err)
}
