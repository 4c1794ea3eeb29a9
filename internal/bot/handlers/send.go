package handlers

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/rambo1111/sous-chef-bot/internal/recipe"
	"github.com/rambo1111/sous-chef-bot/internal/session"
)

// keyboardMarkup converts a transport-free keyboard into Telegram markup.
func keyboardMarkup(keyboard [][]session.Button) *models.InlineKeyboardMarkup {
	if len(keyboard) == 0 {
		return nil
	}

	rows := make([][]models.InlineKeyboardButton, 0, len(keyboard))
	for _, row := range keyboard {
		buttons := make([]models.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			buttons = append(buttons, models.InlineKeyboardButton{
				Text:         btn.Label,
				CallbackData: btn.Data,
			})
		}
		rows = append(rows, buttons)
	}

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// sendReply delivers a reply as a new message. MarkdownV2 replies fall back
// to stripped plain text when Telegram rejects the entity parse.
func sendReply(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, reply *session.Reply) {
	if reply == nil || reply.Text == "" {
		return
	}

	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   reply.Text,
	}
	if reply.Markdown {
		params.ParseMode = models.ParseModeMarkdown
	}
	if markup := keyboardMarkup(reply.Keyboard); markup != nil {
		params.ReplyMarkup = markup
	}

	_, err := b.SendMessage(ctx, params)
	if err != nil && reply.Markdown {
		log.WarnContext(ctx, "Markdown send failed, retrying as plain text", "chat_id", chatID, "error", err)
		params.ParseMode = ""
		params.Text = recipe.StripMarkdown(reply.Text)
		_, err = b.SendMessage(ctx, params)
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to send message", "chat_id", chatID, "error", err)
	}
}

// editReply rewrites an existing message in place, with the same plain-text
// fallback as sendReply.
func editReply(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, messageID int, reply *session.Reply) {
	params := &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      reply.Text,
	}
	if reply.Markdown {
		params.ParseMode = models.ParseModeMarkdown
	}
	if markup := keyboardMarkup(reply.Keyboard); markup != nil {
		params.ReplyMarkup = markup
	}

	_, err := b.EditMessageText(ctx, params)
	if err != nil && reply.Markdown {
		log.WarnContext(ctx, "Markdown edit failed, retrying as plain text", "chat_id", chatID, "error", err)
		params.ParseMode = ""
		params.Text = recipe.StripMarkdown(reply.Text)
		_, err = b.EditMessageText(ctx, params)
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to edit message", "chat_id", chatID, "message_id", messageID, "error", err)
	}
}
