package repositories

import (
	"testing"
	"time"

	"accommodation_portal/internal/models"
	"accommodation_portal/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepositoryItems(t *testing.T) {
	db := testutil.NewTestDB(t, &models.Session{}, &models.SessionItem{})
	repo := NewSessionRepository()

	session := &models.Session{ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.Create(db, session))
	require.NotEmpty(t, session.ID)

	require.NoError(t, repo.SetItem(db, session.ID, "token", "a"))
	require.NoError(t, repo.SetItem(db, session.ID, "token", "b"))
	require.NoError(t, repo.SetItem(db, session.ID, "user", "{}"))
	require.NoError(t, repo.DeleteItem(db, session.ID, "user"))
	require.NoError(t, repo.DeleteItem(db, session.ID, "missing"))

	loaded, err := repo.FindActive(db, session.ID, time.Now())
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "token", loaded.Items[0].Key)
	assert.Equal(t, "b", loaded.Items[0].Value)
}

func TestSessionRepositoryExpiry(t *testing.T) {
	db := testutil.NewTestDB(t, &models.Session{}, &models.SessionItem{})
	repo := NewSessionRepository()
	now := time.Now()

	live := &models.Session{ExpiresAt: now.Add(time.Hour)}
	stale := &models.Session{ExpiresAt: now.Add(-time.Hour)}
	require.NoError(t, repo.Create(db, live))
	require.NoError(t, repo.Create(db, stale))
	require.NoError(t, repo.SetItem(db, stale.ID, "token", "x"))

	_, err := repo.FindActive(db, stale.ID, now)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	deleted, err := repo.DeleteExpired(db, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var items int64
	require.NoError(t, db.Model(&models.SessionItem{}).Count(&items).Error)
	assert.Zero(t, items)

	_, err = repo.FindActive(db, live.ID, now)
	assert.NoError(t, err)

	assert.ErrorIs(t, repo.Touch(db, stale.ID, now), ErrSessionNotFound)
}

func TestNotificationRepositoryFeed(t *testing.T) {
	db := testutil.NewTestDB(t, &models.Notification{})
	repo := NewNotificationRepository()

	require.NoError(t, repo.CreateBatch(db, []*models.Notification{
		{UserID: "1", Type: models.NotificationTypeBooking, Title: "Booked"},
		{UserID: "1", Type: models.NotificationTypeSystem, Title: "Maintenance"},
		{UserID: "2", Type: models.NotificationTypeSystem, Title: "Other user"},
	}))

	items, total, err := repo.FindUserNotifications(db, "1", NotificationCriteria{Type: string(models.NotificationTypeSystem)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Maintenance", items[0].Title)

	assert.ErrorIs(t, repo.MarkAsRead(db, "2", items[0].ID), ErrNotificationNotFound)
	require.NoError(t, repo.MarkAsRead(db, "1", items[0].ID))

	unread, err := repo.CountUnread(db, "1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	marked, err := repo.MarkAllAsRead(db, "1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), marked)

	deleted, err := repo.DeleteReadBefore(db, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := repo.CountUser(db, "2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), remaining)
}

func TestNotificationRepositoryBulkAndSeed(t *testing.T) {
	db := testutil.NewTestDB(t, &models.Notification{}, &models.NotificationSeed{})
	repo := NewNotificationRepository()

	first := &models.Notification{UserID: "1", Type: models.NotificationTypePayment, Title: "Paid", Message: "Retreat deposit"}
	second := &models.Notification{UserID: "1", Type: models.NotificationTypeUser, Title: "Welcome"}
	require.NoError(t, repo.Create(db, first))
	require.NoError(t, repo.Create(db, second))

	found, total, err := repo.FindUserNotifications(db, "1", NotificationCriteria{Search: "DEPOSIT"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, first.ID, found[0].ID)

	marked, err := repo.MarkManyAsRead(db, "1", []string{first.ID, second.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)

	read, _, err := repo.FindUserNotifications(db, "1", NotificationCriteria{ReadOnly: true})
	require.NoError(t, err)
	assert.Len(t, read, 2)

	deleted, err := repo.DeleteMany(db, "2", []string{first.ID})
	require.NoError(t, err)
	assert.Zero(t, deleted)

	seeded, err := repo.MarkSeeded(db, "1")
	require.NoError(t, err)
	assert.True(t, seeded)
	seeded, err = repo.MarkSeeded(db, "1")
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestNotificationRepositoryRejectsInvalid(t *testing.T) {
	db := testutil.NewTestDB(t, &models.Notification{})
	repo := NewNotificationRepository()

	err := repo.Create(db, &models.Notification{UserID: "1", Type: "unknown", Title: "x"})
	assert.ErrorIs(t, err, ErrInvalidNotificationData)
}
