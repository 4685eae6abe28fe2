package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeSessions struct {
	calls atomic.Int32
	err   error
}

func (f *fakeSessions) Purge(context.Context) (int64, error) {
	f.calls.Add(1)
	return 2, f.err
}

type fakeNotifications struct {
	calls     atomic.Int32
	retention time.Duration
}

func (f *fakeNotifications) PurgeRead(_ context.Context, retention time.Duration) (int64, error) {
	f.calls.Add(1)
	f.retention = retention
	return 1, nil
}

func TestCleanupWorker_RunOnce(t *testing.T) {
	sessions := &fakeSessions{}
	notes := &fakeNotifications{}
	w := NewCleanupWorker(sessions, notes, time.Minute, 48*time.Hour)

	w.RunOnce(context.Background())

	assert.EqualValues(t, 1, sessions.calls.Load())
	assert.EqualValues(t, 1, notes.calls.Load())
	assert.Equal(t, 48*time.Hour, notes.retention)
}

func TestCleanupWorker_SkipsNotificationsWithoutRetention(t *testing.T) {
	sessions := &fakeSessions{err: errors.New("db down")}
	notes := &fakeNotifications{}
	w := NewCleanupWorker(sessions, notes, time.Minute, 0)

	w.RunOnce(context.Background())

	assert.EqualValues(t, 1, sessions.calls.Load())
	assert.Zero(t, notes.calls.Load())
}

func TestCleanupWorker_StopsWithContext(t *testing.T) {
	sessions := &fakeSessions{}
	w := NewCleanupWorker(sessions, nil, 10*time.Millisecond, 0)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	assert.Eventually(t, func() bool { return sessions.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	done := make(chan struct{})
	go func() {
		w.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
