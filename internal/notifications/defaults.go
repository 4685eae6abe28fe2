package notifications

import (
	"encoding/json"
	"time"

	"accommodation_portal/internal/models"
)

type notice struct {
	kind    models.NotificationType
	title   string
	message string
	meta    models.NotificationMeta
}

var defaults = []notice{
	{
		kind:    models.NotificationTypeBooking,
		title:   "New Booking Request",
		message: "Youth Ministry has requested accommodation for March 15-18, 2025.",
		meta:    models.NotificationMeta{Priority: "high", Sender: "System"},
	},
	{
		kind:    models.NotificationTypeAllocation,
		title:   "Room Allocation Approved",
		message: "Your allocation request for Block A, Room 101 has been approved.",
		meta:    models.NotificationMeta{Priority: "medium", Sender: "System"},
	},
	{
		kind:    models.NotificationTypePayment,
		title:   "Payment Received",
		message: "Payment of ₦500,000 has been received for Women's Retreat booking.",
		meta:    models.NotificationMeta{Priority: "low", Sender: "System"},
	},
	{
		kind:    models.NotificationTypeSystem,
		title:   "System Maintenance",
		message: "System maintenance is scheduled for January 15, 2025.",
		meta:    models.NotificationMeta{Priority: "medium", Sender: "System"},
	},
}

// defaultNotices are spaced a minute apart so the feed keeps their order.
func defaultNotices(userID string, now time.Time) []*models.Notification {
	out := make([]*models.Notification, 0, len(defaults))
	for i, d := range defaults {
		data, _ := json.Marshal(d.meta)
		n := &models.Notification{
			UserID:  userID,
			Type:    d.kind,
			Title:   d.title,
			Message: d.message,
			Data:    data,
		}
		n.CreatedAt = now.Add(-time.Duration(i) * time.Minute)
		out = append(out, n)
	}
	return out
}
