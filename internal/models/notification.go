package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	UserID  string           `gorm:"type:varchar(64);not null;index"`
	Type    NotificationType `gorm:"type:varchar(32);not null"`
	Title   string           `gorm:"not null"`
	Message string
	Data    datatypes.JSON
	IsRead  bool `gorm:"default:false;index"`
	ReadAt  *time.Time
}

// NotificationMeta is the optional payload kept in Notification.Data.
type NotificationMeta struct {
	Priority  string         `json:"priority,omitempty"`
	ActionURL string         `json:"action_url,omitempty"`
	Sender    string         `json:"sender,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// Meta decodes Data. Missing or malformed data yields a low priority notice.
func (n Notification) Meta() NotificationMeta {
	meta := NotificationMeta{}
	if len(n.Data) > 0 {
		_ = json.Unmarshal(n.Data, &meta)
	}
	if meta.Priority == "" {
		meta.Priority = "low"
	}
	return meta
}

// NotificationSeed marks users whose feed already received the welcome notices.
type NotificationSeed struct {
	UserID   string    `gorm:"type:varchar(64);primaryKey"`
	SeededAt time.Time `gorm:"autoCreateTime"`
}
