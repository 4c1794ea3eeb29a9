package session

// Button is one inline-keyboard button, transport-agnostic.
type Button struct {
	Label string
	Data  string
}

// Reply is the orchestrator's answer to one incoming message or callback.
// The transport layer turns it into Telegram API calls.
type Reply struct {
	// Text is the message body. Never empty for message replies.
	Text string

	// Markdown requests MarkdownV2 rendering; the transport falls back to
	// plain text if Telegram rejects the entity parse.
	Markdown bool

	// Keyboard is an optional inline keyboard, row-major.
	Keyboard [][]Button

	// Alert is shown as a callback-query popup instead of a message.
	Alert string

	// Edit asks the transport to edit the originating message in place
	// (callback flows) rather than send a new one.
	Edit bool
}

func textReply(text string) *Reply {
	return &Reply{Text: text}
}
