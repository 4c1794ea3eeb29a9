package gemini

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rambo1111/sous-chef-bot/internal/config"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := NewClient(context.Background(), config.GeminiConfig{}, log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestExtractJSONObject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"fenced object", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"leading prose", `Here is your recipe: {"recipe":{}}`, `{"recipe":{}}`},
		{"no object", "sorry, no can do", ""},
		{"unbalanced", "}{", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, extractJSONObject(tt.input))
		})
	}
}
