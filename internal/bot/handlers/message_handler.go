package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewMessageHandler returns the handler for all text messages, commands and
// free-text recipe requests alike. Routing happens in the session layer.
func NewMessageHandler(deps HandlerDeps) bot.HandlerFunc {
	return messageHandler{deps}.Handle
}

type messageHandler struct {
	deps HandlerDeps
}

func (h messageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "message")

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		log.DebugContext(ctx, "Ignoring update with nil message, empty text, or nil sender", "update_id", update.ID)
		return
	}

	chatID := msg.Chat.ID
	userID := msg.From.ID
	log.DebugContext(ctx, "Handling message", "chat_id", chatID, "user_id", userID)

	// Free text means a generation round trip, so acknowledge right away.
	if !strings.HasPrefix(strings.TrimSpace(msg.Text), "/") {
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   h.deps.Orchestrator.LoadingMessage(),
		})
		if err != nil {
			log.WarnContext(ctx, "Failed to send loading message", "chat_id", chatID, "error", err)
		}
	}

	reply := h.deps.Orchestrator.Handle(ctx, userID, msg.Text)
	sendReply(ctx, b, log, chatID, reply)
}
