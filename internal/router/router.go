// Package router classifies raw message text into one of a closed set of
// intents. Classification is pure: no side effects, no store access.
package router

import "strings"

// Intent is the classified purpose of an incoming message.
type Intent int

const (
	// FreeTextQuery is any input that is not a recognized slash command.
	FreeTextQuery Intent = iota
	Start
	Help
	SetHealth
	SetDiet
	Status
	ListRecipes
	ClearPreferences
)

// String returns the intent name for logging.
func (i Intent) String() string {
	switch i {
	case Start:
		return "start"
	case Help:
		return "help"
	case SetHealth:
		return "set_health"
	case SetDiet:
		return "set_diet"
	case Status:
		return "status"
	case ListRecipes:
		return "list_recipes"
	case ClearPreferences:
		return "clear_preferences"
	default:
		return "free_text_query"
	}
}

// Classification is the result of routing one message.
type Classification struct {
	Intent Intent

	// Payload carries the text after the command token, or the verbatim
	// input for FreeTextQuery.
	Payload string

	// Unknown is set when a slash command was not recognized and the
	// classification fell back to Help.
	Unknown bool
}

var commands = map[string]Intent{
	"/start":     Start,
	"/help":      Help,
	"/health":    SetHealth,
	"/diet":      SetDiet,
	"/status":    Status,
	"/myrecipes": ListRecipes,
	"/clear":     ClearPreferences,
}

// Classify maps raw input text to exactly one intent. Slash-prefixed tokens
// map to their command by exact case-insensitive match, with an optional
// @botname suffix stripped; anything else is a FreeTextQuery carrying the
// verbatim text. Unrecognized slash commands fall back to Help with the
// Unknown flag set.
func Classify(text string) Classification {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "/") {
		return Classification{Intent: FreeTextQuery, Payload: text}
	}

	token := trimmed
	payload := ""
	if idx := strings.IndexAny(trimmed, " \t\n"); idx != -1 {
		token = trimmed[:idx]
		payload = strings.TrimSpace(trimmed[idx+1:])
	}

	// Telegram appends @botname to commands in group chats.
	if at := strings.Index(token, "@"); at != -1 {
		token = token[:at]
	}

	intent, ok := commands[strings.ToLower(token)]
	if !ok {
		return Classification{Intent: Help, Unknown: true}
	}

	return Classification{Intent: intent, Payload: payload}
}
