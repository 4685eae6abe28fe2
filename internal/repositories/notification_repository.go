package repositories

import (
	"errors"
	"strings"
	"time"

	"accommodation_portal/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotificationNotFound    = errors.New("notification not found")
	ErrInvalidNotificationData = errors.New("invalid notification data")
)

// NotificationCriteria filters a user's feed.
type NotificationCriteria struct {
	UnreadOnly bool
	ReadOnly   bool
	Type       string
	Search     string
	Page       int
	PageSize   int
}

type NotificationRepository interface {
	Create(db *gorm.DB, notification *models.Notification) error
	CreateBatch(db *gorm.DB, notifications []*models.Notification) error
	FindByID(db *gorm.DB, userID, id string) (*models.Notification, error)
	FindUserNotifications(db *gorm.DB, userID string, criteria NotificationCriteria) ([]models.Notification, int64, error)
	CountUser(db *gorm.DB, userID string) (int64, error)
	CountUnread(db *gorm.DB, userID string) (int64, error)
	MarkAsRead(db *gorm.DB, userID, id string) error
	MarkAllAsRead(db *gorm.DB, userID string) (int64, error)
	MarkManyAsRead(db *gorm.DB, userID string, ids []string) (int64, error)
	Delete(db *gorm.DB, userID, id string) error
	DeleteMany(db *gorm.DB, userID string, ids []string) (int64, error)

	// MarkSeeded records the first seeding of a user's feed and reports
	// whether this call was the one that did it.
	MarkSeeded(db *gorm.DB, userID string) (bool, error)

	// DeleteReadBefore removes read notifications of every user older than the cutoff.
	DeleteReadBefore(db *gorm.DB, before time.Time) (int64, error)
}

type notificationRepository struct{}

func NewNotificationRepository() NotificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) Create(db *gorm.DB, notification *models.Notification) error {
	if err := r.validateNotification(notification); err != nil {
		return err
	}
	return db.Create(notification).Error
}

func (r *notificationRepository) CreateBatch(db *gorm.DB, notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	for _, notification := range notifications {
		if err := r.validateNotification(notification); err != nil {
			return err
		}
	}
	return db.CreateInBatches(notifications, 100).Error
}

func (r *notificationRepository) FindByID(db *gorm.DB, userID, id string) (*models.Notification, error) {
	var notification models.Notification
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) FindUserNotifications(db *gorm.DB, userID string, criteria NotificationCriteria) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	query := db.Model(&models.Notification{}).Where("user_id = ?", userID)

	if criteria.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if criteria.ReadOnly {
		query = query.Where("is_read = ?", true)
	}
	if criteria.Type != "" {
		query = query.Where("type = ?", criteria.Type)
	}
	if criteria.Search != "" {
		like := "%" + strings.ToLower(criteria.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(message) LIKE ?", like, like)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if criteria.PageSize > 0 {
		page := criteria.Page
		if page < 1 {
			page = 1
		}
		query = query.Limit(criteria.PageSize).Offset((page - 1) * criteria.PageSize)
	}

	err := query.Order("created_at DESC").Find(&notifications).Error
	return notifications, total, err
}

func (r *notificationRepository) CountUser(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *notificationRepository) CountUnread(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) MarkAsRead(db *gorm.DB, userID, id string) error {
	result := db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllAsRead(db *gorm.DB, userID string) (int64, error) {
	result := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) MarkManyAsRead(db *gorm.DB, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := db.Model(&models.Notification{}).
		Where("user_id = ? AND id IN ? AND is_read = ?", userID, ids, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) DeleteMany(db *gorm.DB, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := db.Where("user_id = ? AND id IN ?", userID, ids).Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) MarkSeeded(db *gorm.DB, userID string) (bool, error) {
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.NotificationSeed{UserID: userID})
	return result.RowsAffected == 1, result.Error
}

func (r *notificationRepository) Delete(db *gorm.DB, userID, id string) error {
	result := db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *notificationRepository) DeleteReadBefore(db *gorm.DB, before time.Time) (int64, error) {
	result := db.Where("is_read = ? AND created_at < ?", true, before).Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) validateNotification(notification *models.Notification) error {
	if notification.UserID == "" || notification.Title == "" {
		return ErrInvalidNotificationData
	}
	if !notification.Type.Valid() {
		return ErrInvalidNotificationData
	}
	return nil
}
