package database

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for chat session persistence.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// AppendMessage inserts a new chat message record.
	AppendMessage(ctx context.Context, message *ChatMessage) error

	// GetRecentMessages retrieves the most recent 'limit' messages for a
	// chat, returned in chronological order.
	GetRecentMessages(ctx context.Context, chatID int64, limit int) ([]ChatMessage, error)

	// ClearChat deletes all messages of a single chat.
	ClearChat(ctx context.Context, chatID int64) error

	// DeleteMessagesBefore evicts messages created before the cutoff across
	// all chats and returns the number of rows removed.
	DeleteMessagesBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// RunMaintenance performs database maintenance tasks like VACUUM.
	RunMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) AppendMessage(ctx context.Context, message *ChatMessage) error {
	if message == nil {
		return fmt.Errorf("cannot save nil message")
	}
	if message.ChatID == 0 {
		return fmt.Errorf("message must have a non-zero chat_id")
	}
	if message.Role != RoleUser && message.Role != RoleAssistant {
		return fmt.Errorf("message role must be %q or %q, got %q", RoleUser, RoleAssistant, message.Role)
	}
	if message.Content == "" {
		return fmt.Errorf("message must have non-empty content")
	}

	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO chat_messages (created_at, chat_id, role, content)
	          VALUES (:created_at, :chat_id, :role, :content)`

	if _, err := s.db.NamedExecContext(ctx, query, message); err != nil {
		s.logger.ErrorContext(ctx, "Failed to insert chat message",
			"chat_id", message.ChatID, "role", message.Role, "error", err)
		return fmt.Errorf("failed to insert chat message: %w", err)
	}

	return nil
}

func (s *sqlxStore) GetRecentMessages(ctx context.Context, chatID int64, limit int) ([]ChatMessage, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	// The inner query selects the newest messages; the outer one restores
	// chronological order for the AI prompt.
	query := `SELECT id, created_at, chat_id, role, content FROM (
	              SELECT id, created_at, chat_id, role, content
	              FROM chat_messages
	              WHERE chat_id = ?
	              ORDER BY id DESC
	              LIMIT ?
	          ) ORDER BY id ASC`

	var messages []ChatMessage
	if err := s.db.SelectContext(ctx, &messages, query, chatID, limit); err != nil {
		s.logger.ErrorContext(ctx, "Failed to query recent chat messages",
			"chat_id", chatID, "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to query recent chat messages: %w", err)
	}

	return messages, nil
}

func (s *sqlxStore) ClearChat(ctx context.Context, chatID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE chat_id = ?`, chatID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to clear chat history", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to clear chat history: %w", err)
	}

	deleted, _ := result.RowsAffected()
	s.logger.InfoContext(ctx, "Cleared chat history", "chat_id", chatID, "messages_deleted", deleted)
	return nil
}

func (s *sqlxStore) DeleteMessagesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to evict expired chat messages", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("failed to evict expired chat messages: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read eviction row count: %w", err)
	}

	return deleted, nil
}

func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `VACUUM`); err != nil {
		s.logger.ErrorContext(ctx, "Failed to run VACUUM", "error", err)
		return fmt.Errorf("failed to run VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed")
	return nil
}
