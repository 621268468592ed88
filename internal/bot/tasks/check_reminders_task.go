package tasks

import (
	"context"
	"fmt"
	"time"
)

// newCheckRemindersTask creates the scheduled task that runs a reminder pass.
// It shares the reminder service (and its re-entrancy guard) with the
// on-demand HTTP trigger, so overlapping invocations are rejected there.
func newCheckRemindersTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "check_reminders")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting scheduled reminder check...")
		startTime := time.Now()

		dispatched, err := deps.Reminder.Run(ctx)

		duration := time.Since(startTime)

		if err != nil {
			log.ErrorContext(ctx, "Reminder check failed", "error", err, "duration", duration)
			return fmt.Errorf("reminder check failed: %w", err)
		}

		log.InfoContext(ctx, "Scheduled reminder check completed", "dispatched", dispatched, "duration", duration)
		return nil
	}
}
