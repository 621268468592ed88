package tasks

import (
	"context"
	"fmt"
	"time"
)

// newSessionCleanupTask creates the scheduled task that evicts expired chat
// session messages and runs database maintenance afterwards.
func newSessionCleanupTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "session_cleanup")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting scheduled session cleanup...")
		startTime := time.Now()

		cutoff := time.Now().Add(-deps.Config.Chat.SessionTTL)
		deleted, err := deps.Store.DeleteMessagesBefore(ctx, cutoff)
		if err != nil {
			log.ErrorContext(ctx, "Session cleanup failed", "error", err)
			return fmt.Errorf("session cleanup failed: %w", err)
		}

		if err := deps.Store.RunMaintenance(ctx); err != nil {
			log.ErrorContext(ctx, "Database maintenance failed", "error", err)
			return fmt.Errorf("database maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "Scheduled session cleanup completed",
			"messages_deleted", deleted,
			"cutoff", cutoff,
			"duration", time.Since(startTime),
		)
		return nil
	}
}
