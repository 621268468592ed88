// Package handlers implements the Telegram command and chat handlers for the
// TaskGuru bot. It includes the conversational coach loop and its session
// management commands.
package handlers

import (
	"log/slog"

	"github.com/taskguru/taskguru/internal/config"
	"github.com/taskguru/taskguru/internal/database"
	"github.com/taskguru/taskguru/internal/gemini"
)

// HandlerDeps provides dependencies for Telegram handlers.
type HandlerDeps struct {
	Logger       *slog.Logger
	Config       *config.Config
	Store        database.Store
	GeminiClient gemini.Client
}
