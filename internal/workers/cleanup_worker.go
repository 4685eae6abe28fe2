package workers

import (
	"context"
	"sync"
	"time"

	"accommodation_portal/internal/logger"
)

// SessionPurger drops expired sessions.
type SessionPurger interface {
	Purge(ctx context.Context) (int64, error)
}

// NotificationPurger drops read notifications older than a retention window.
type NotificationPurger interface {
	PurgeRead(ctx context.Context, retention time.Duration) (int64, error)
}

const cleanupWorkerName = "cleanup"

// CleanupWorker periodically removes expired portal state.
type CleanupWorker struct {
	sessions      SessionPurger
	notifications NotificationPurger
	interval      time.Duration
	retention     time.Duration

	wg sync.WaitGroup
}

func NewCleanupWorker(sessions SessionPurger, notifications NotificationPurger, interval, retention time.Duration) *CleanupWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &CleanupWorker{
		sessions:      sessions,
		notifications: notifications,
		interval:      interval,
		retention:     retention,
	}
}

// Start runs one sweep right away, then one per interval until ctx is done.
func (w *CleanupWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.loop(ctx)
	}()
}

// Wait blocks until the worker has stopped.
func (w *CleanupWorker) Wait() {
	w.wg.Wait()
}

func (w *CleanupWorker) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep.
func (w *CleanupWorker) RunOnce(ctx context.Context) {
	if w.sessions != nil {
		n, err := w.sessions.Purge(ctx)
		logger.WorkerLog(cleanupWorkerName, "purge_sessions", err)
		if err == nil && n > 0 {
			logger.Info("Expired sessions removed", "count", n)
		}
	}

	if w.notifications != nil && w.retention > 0 {
		n, err := w.notifications.PurgeRead(ctx, w.retention)
		logger.WorkerLog(cleanupWorkerName, "purge_notifications", err)
		if err == nil && n > 0 {
			logger.Info("Old notifications removed", "count", n)
		}
	}
}
