// Package tasks implements scheduled tasks for the TaskGuru bot.
// It includes task definitions, dependencies, and registration mechanisms.
package tasks

import (
	"log/slog"

	"github.com/taskguru/taskguru/internal/config"
	"github.com/taskguru/taskguru/internal/database"
	"github.com/taskguru/taskguru/internal/reminder"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Store    database.Store
	Reminder *reminder.Service
}
