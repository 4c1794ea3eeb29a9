package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents an update handler with its pattern and
// middleware. It encapsulates all information needed to register a handler.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// Commands lists every slash command the bot answers, in menu order, with
// the descriptions shown in the Telegram command menu.
var Commands = []struct {
	Command     string
	Description string
}{
	{"start", "Start the bot"},
	{"help", "Show help and usage examples"},
	{"health", "Set your health information"},
	{"diet", "Set dietary preferences and allergies"},
	{"status", "View your current preferences"},
	{"myrecipes", "View your saved recipes"},
	{"clear", "Clear all your saved preferences"},
}

// RegisterAllHandlers initializes and returns a map of all bot handlers.
// Commands and free text share the message handler, the session layer does
// the routing; inline buttons go to the callback handler.
func RegisterAllHandlers(deps HandlerDeps) map[string]RegisteredHandler {
	registered := make(map[string]RegisteredHandler)

	messageHandler := NewMessageHandler(deps)
	for _, cmd := range Commands {
		registered["/"+cmd.Command] = RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     cmd.Command,
			Handler:     messageHandler,
			MatchType:   tgbot.MatchTypeCommandStartOnly,
		}
	}

	registered["callback"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "",
		Handler:     NewCallbackHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}

	return registered
}
