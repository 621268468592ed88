package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const (
	resetConfirmMessage = "Conversation history has been reset."
	resetErrorMessage   = "Could not reset the conversation. Please try again later."
)

// NewResetHandler returns a handler for the /reset command, which clears the
// stored conversation history for the current chat.
func NewResetHandler(deps HandlerDeps) bot.HandlerFunc {
	return resetHandler{deps}.Handle
}

type resetHandler struct {
	deps HandlerDeps
}

func (h resetHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "reset")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Reset handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /reset command", "chat_id", chatID, "user_id", update.Message.From.ID)

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	reply := resetConfirmMessage
	if err := h.deps.Store.ClearChat(dbCtx, chatID); err != nil {
		log.ErrorContext(ctx, "Failed to clear chat history", "error", err, "chat_id", chatID)
		reply = resetErrorMessage
	}

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: reply}); err != nil {
		log.ErrorContext(ctx, "Failed to send reset reply", "error", err, "chat_id", chatID)
	}
}
