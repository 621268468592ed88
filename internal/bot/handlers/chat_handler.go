package handlers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/taskguru/taskguru/internal/database"
)

const chatErrorMessage = "I couldn't come up with a reply right now. Please try again in a moment."

// NewChatHandler returns the default handler for plain chat messages. Each
// message is appended to the chat's session history, the recent history is
// sent to the AI, and the reply is stored and delivered.
func NewChatHandler(deps HandlerDeps) bot.HandlerFunc {
	return chatHandler{deps}.Handle
}

type chatHandler struct {
	deps HandlerDeps
}

func (h chatHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "chat")

	if update.Message == nil || update.Message.From == nil {
		return
	}

	text := strings.TrimSpace(update.Message.Text)
	if text == "" || strings.HasPrefix(text, "/") {
		// Non-text updates and unregistered commands are not conversation turns.
		return
	}

	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling chat message", "chat_id", chatID, "user_id", update.Message.From.ID)

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	userMsg := &database.ChatMessage{ChatID: chatID, Role: database.RoleUser, Content: text}
	if err := h.deps.Store.AppendMessage(dbCtx, userMsg); err != nil {
		log.ErrorContext(ctx, "Failed to store user message", "error", err, "chat_id", chatID)
		// Continue with the in-memory turn so the user still gets a reply.
	}

	history, err := h.deps.Store.GetRecentMessages(dbCtx, chatID, h.deps.Config.Chat.HistoryLimit)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load chat history", "error", err, "chat_id", chatID)
		history = []database.ChatMessage{*userMsg}
	}
	if len(history) == 0 {
		history = []database.ChatMessage{*userMsg}
	}

	reply, err := h.deps.GeminiClient.GenerateReply(ctx, history)
	if err != nil {
		log.ErrorContext(ctx, "Failed to generate chat reply", "error", err, "chat_id", chatID)
		h.send(ctx, b, chatID, chatErrorMessage, log)
		return
	}

	h.send(ctx, b, chatID, reply, log)

	assistantMsg := &database.ChatMessage{ChatID: chatID, Role: database.RoleAssistant, Content: reply}
	if err := h.deps.Store.AppendMessage(dbCtx, assistantMsg); err != nil {
		log.ErrorContext(ctx, "Failed to store assistant message", "error", err, "chat_id", chatID)
	}
}

func (h chatHandler) send(ctx context.Context, b *bot.Bot, chatID int64, text string, log *slog.Logger) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send chat reply", "error", err, "chat_id", chatID)
	}
}
