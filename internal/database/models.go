package database

import (
	"time"
)

// Chat message roles as stored in the session table.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single turn of a chat conversation with the bot.
// Messages accumulate per chat and form the context sent to the AI; old
// messages are evicted by the session cleanup task.
type ChatMessage struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	ChatID  int64  `db:"chat_id"`
	Role    string `db:"role"`
	Content string `db:"content"`
}
