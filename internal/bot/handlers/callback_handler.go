package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewCallbackHandler returns the handler for inline-keyboard button presses.
func NewCallbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return callbackHandler{deps}.Handle
}

type callbackHandler struct {
	deps HandlerDeps
}

func (h callbackHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "callback")

	query := update.CallbackQuery
	if query == nil || query.Data == "" {
		log.DebugContext(ctx, "Ignoring update with nil or empty callback query", "update_id", update.ID)
		return
	}

	userID := query.From.ID
	log.DebugContext(ctx, "Handling callback", "user_id", userID, "data", query.Data)

	reply := h.deps.Orchestrator.HandleCallback(ctx, userID, query.Data)

	// Telegram requires every callback query to be answered, even when the
	// reply carries no alert.
	answer := &bot.AnswerCallbackQueryParams{CallbackQueryID: query.ID}
	if reply != nil && reply.Alert != "" {
		answer.Text = reply.Alert
		answer.ShowAlert = true
	}
	if _, err := b.AnswerCallbackQuery(ctx, answer); err != nil {
		log.WarnContext(ctx, "Failed to answer callback query", "user_id", userID, "error", err)
	}

	if reply == nil || reply.Text == "" {
		return
	}

	msg := query.Message.Message
	if msg == nil {
		// The originating message is inaccessible, deliver as a new one.
		log.DebugContext(ctx, "Callback message inaccessible, sending fresh reply", "user_id", userID)
		sendReply(ctx, b, log, userID, reply)
		return
	}

	if reply.Edit {
		editReply(ctx, b, log, msg.Chat.ID, msg.ID, reply)
		return
	}

	sendReply(ctx, b, log, msg.Chat.ID, reply)
}
