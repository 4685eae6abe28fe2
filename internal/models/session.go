package models

import "time"

// Session is one browser's server-side storage.
type Session struct {
	BaseModel
	ExpiresAt time.Time     `gorm:"not null;index"`
	Items     []SessionItem `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

// SessionItem is one key of a session's storage.
type SessionItem struct {
	SessionID string `gorm:"type:varchar(36);primaryKey"`
	Key       string `gorm:"column:item_key;type:varchar(128);primaryKey"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}
