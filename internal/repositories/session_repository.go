package repositories

import (
	"errors"
	"time"

	"accommodation_portal/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrSessionNotFound is returned when no live session has the given id.
	ErrSessionNotFound = errors.New("session not found")
)

// SessionRepository persists browser sessions and their key/value items.
type SessionRepository interface {
	// Create inserts a new empty session.
	Create(db *gorm.DB, session *models.Session) error

	// FindActive loads a session with its items unless it expired before now.
	FindActive(db *gorm.DB, id string, now time.Time) (*models.Session, error)

	// Touch moves the expiry of a session forward.
	Touch(db *gorm.DB, id string, expiresAt time.Time) error

	// SetItem inserts or replaces a single key.
	SetItem(db *gorm.DB, sessionID, key, value string) error

	// DeleteItem removes a single key. Missing keys are not an error.
	DeleteItem(db *gorm.DB, sessionID, key string) error

	// Delete removes a session and all of its items.
	Delete(db *gorm.DB, id string) error

	// DeleteExpired removes every session that expired before the given time.
	DeleteExpired(db *gorm.DB, before time.Time) (int64, error)
}

type sessionRepository struct{}

func NewSessionRepository() SessionRepository {
	return &sessionRepository{}
}

func (r *sessionRepository) Create(db *gorm.DB, session *models.Session) error {
	return db.Create(session).Error
}

func (r *sessionRepository) FindActive(db *gorm.DB, id string, now time.Time) (*models.Session, error) {
	var session models.Session
	err := db.Preload("Items").
		Where("id = ? AND expires_at > ?", id, now).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Touch(db *gorm.DB, id string, expiresAt time.Time) error {
	result := db.Model(&models.Session{}).Where("id = ?", id).Update("expires_at", expiresAt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *sessionRepository) SetItem(db *gorm.DB, sessionID, key, value string) error {
	item := models.SessionItem{
		SessionID: sessionID,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "item_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&item).Error
}

func (r *sessionRepository) DeleteItem(db *gorm.DB, sessionID, key string) error {
	return db.Where("session_id = ? AND item_key = ?", sessionID, key).Delete(&models.SessionItem{}).Error
}

func (r *sessionRepository) Delete(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&models.SessionItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Session{}).Error
	})
}

// DeleteExpired does not rely on ON DELETE CASCADE, which sqlite only honours
// with foreign keys enabled.
func (r *sessionRepository) DeleteExpired(db *gorm.DB, before time.Time) (int64, error) {
	var deleted int64
	err := db.Transaction(func(tx *gorm.DB) error {
		expired := tx.Model(&models.Session{}).Select("id").Where("expires_at <= ?", before)
		if err := tx.Where("session_id IN (?)", expired).Delete(&models.SessionItem{}).Error; err != nil {
			return err
		}
		result := tx.Where("expires_at <= ?", before).Delete(&models.Session{})
		deleted = result.RowsAffected
		return result.Error
	})
	return deleted, err
}
