// Package reminder implements the reminder scheduling and notification
// dispatch loop. A pass scans the task rows for tasks due within the
// lookahead window, requests AI motivation text for each candidate, sends a
// Telegram notification, and marks the row as notified. Delivery is
// at-least-once: the notified flag provides idempotency across passes, not a
// transactional guarantee.
package reminder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/taskguru/taskguru/internal/config"
	"github.com/taskguru/taskguru/internal/sheets"
)

// TaskSource provides the task rows and the notified write-back. Row
// addresses returned by FetchTasks must stay valid for MarkNotified within
// the same pass.
type TaskSource interface {
	FetchTasks(ctx context.Context) ([]sheets.Task, error)
	MarkNotified(ctx context.Context, row int) error
}

// Motivator generates the motivational message body for a task description.
type Motivator interface {
	GenerateMotivation(ctx context.Context, description string) (string, error)
}

// Notifier delivers a message to the chat identified by an opaque id.
type Notifier interface {
	SendMessage(ctx context.Context, chatID, text string) error
}

// Service runs reminder passes. The same Run method backs both the cron
// trigger and the on-demand HTTP trigger; an atomic in-flight flag rejects
// overlapping passes.
type Service struct {
	logger      *slog.Logger
	store       TaskSource
	motivator   Motivator
	notifier    Notifier
	window      time.Duration
	aiTimeout   time.Duration
	sendTimeout time.Duration

	now      func() time.Time
	inFlight atomic.Bool
}

// NewService creates a reminder Service with the given collaborators and
// timing configuration.
func NewService(logger *slog.Logger, store TaskSource, motivator Motivator, notifier Notifier, cfg config.ReminderConfig) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		logger:      logger.With("component", "reminder"),
		store:       store,
		motivator:   motivator,
		notifier:    notifier,
		window:      cfg.Window,
		aiTimeout:   cfg.AITimeout,
		sendTimeout: cfg.SendTimeout,
		now:         time.Now,
	}
}

// Run executes a single reminder pass and returns the number of dispatched
// notifications. A pass that finds another one in flight returns immediately
// with zero dispatches. A store fetch failure aborts the pass; every other
// failure is logged per row and processing continues.
func (s *Service) Run(ctx context.Context) (int, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.logger.WarnContext(ctx, "Reminder pass already in flight, skipping")
		return 0, nil
	}
	defer s.inFlight.Store(false)

	startTime := time.Now()
	s.logger.InfoContext(ctx, "Starting reminder pass")

	tasks, err := s.store.FetchTasks(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Reminder pass aborted, failed to fetch tasks", "error", err)
		return 0, fmt.Errorf("failed to fetch tasks: %w", err)
	}

	// now and soon are computed once so the whole batch sees a consistent
	// notification window.
	now := s.now()
	soon := now.Add(s.window)

	dispatched := 0
	for _, task := range tasks {
		if !s.isCandidate(ctx, task, now, soon) {
			continue
		}
		if s.dispatch(ctx, task) {
			dispatched++
		}
	}

	s.logger.InfoContext(ctx, "Reminder pass finished",
		"rows", len(tasks),
		"dispatched", dispatched,
		"duration", time.Since(startTime),
	)
	return dispatched, nil
}

// isCandidate applies the eligibility rules: the task must have a parseable
// due timestamp, must not be done or already notified, and the due time must
// fall in (now, soon].
func (s *Service) isCandidate(ctx context.Context, task sheets.Task, now, soon time.Time) bool {
	if strings.TrimSpace(task.Due) == "" || task.IsDone() || task.IsNotified() {
		return false
	}

	due, err := ParseDue(task.Due)
	if err != nil {
		s.logger.WarnContext(ctx, "Skipping task with unparseable due timestamp",
			"task_id", task.ID, "due", task.Due, "error", err)
		return false
	}

	return due.After(now) && !due.After(soon)
}

// dispatch sends the reminder for one candidate and reports whether delivery
// succeeded. The notified flag is written only after a successful send; a
// failed write is tolerated and the row will be redispatched next pass.
func (s *Service) dispatch(ctx context.Context, task sheets.Task) bool {
	text := s.messageFor(ctx, task)

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	if err := s.notifier.SendMessage(sendCtx, task.OwnerChatID, text); err != nil {
		s.logger.ErrorContext(ctx, "Failed to deliver reminder",
			"task_id", task.ID, "chat_id", task.OwnerChatID, "error", err)
		return false
	}

	if err := s.store.MarkNotified(ctx, task.Row); err != nil {
		s.logger.ErrorContext(ctx, "Failed to mark task notified after delivery, duplicate send possible next pass",
			"task_id", task.ID, "row", task.Row, "error", err)
	}

	return true
}

// messageFor produces the notification body: the AI motivation text when the
// single bounded attempt succeeds, the deterministic fallback otherwise.
func (s *Service) messageFor(ctx context.Context, task sheets.Task) string {
	aiCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
	defer cancel()

	text, err := s.motivator.GenerateMotivation(aiCtx, task.Description)
	if err != nil {
		s.logger.WarnContext(ctx, "Motivation generation failed, using fallback message",
			"task_id", task.ID, "error", err)
		return FallbackMessage(task.Description, s.window)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return FallbackMessage(task.Description, s.window)
	}
	return text
}

// FallbackMessage returns the deterministic reminder text used when AI
// motivation is unavailable. It embeds the task description and is clearly
// an automatic reminder rather than personalized text.
func FallbackMessage(description string, window time.Duration) string {
	return fmt.Sprintf("🔔 Task due within %d minutes: %q", int(window.Minutes()), description)
}
