package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-telegram/bot"
)

// Notifier delivers reminder notifications to a Telegram chat. It performs a
// single sendMessage call with no internal retry; transport failures are
// reported to the caller, which decides whether the row may be marked as
// notified.
type Notifier struct {
	bot    *bot.Bot
	logger *slog.Logger
}

// NewNotifier creates a Notifier on top of an existing bot instance.
func NewNotifier(b *bot.Bot, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		bot:    b,
		logger: logger.With("component", "notifier"),
	}
}

// SendMessage sends text to the chat identified by chatID. The chat id is
// carried as an opaque string in the task rows and must parse as a Telegram
// chat id here.
func (n *Notifier) SendMessage(ctx context.Context, chatID, text string) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", chatID, err)
	}

	if _, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{ChatID: id, Text: text}); err != nil {
		n.logger.ErrorContext(ctx, "Failed to send notification", "chat_id", id, "error", err)
		return fmt.Errorf("failed to send notification to chat %d: %w", id, err)
	}

	n.logger.InfoContext(ctx, "Notification sent", "chat_id", id, "text_length", len(text))
	return nil
}
