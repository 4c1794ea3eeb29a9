package router_test

import (
	"testing"

	"github.com/rambo1111/sous-chef-bot/internal/router"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected router.Classification
	}{
		{
			name:     "start command",
			input:    "/start",
			expected: router.Classification{Intent: router.Start},
		},
		{
			name:     "help command",
			input:    "/help",
			expected: router.Classification{Intent: router.Help},
		},
		{
			name:     "health with payload",
			input:    "/health bp:120/80, sugar:normal",
			expected: router.Classification{Intent: router.SetHealth, Payload: "bp:120/80, sugar:normal"},
		},
		{
			name:     "mixed case command",
			input:    "/Health BP:120/80",
			expected: router.Classification{Intent: router.SetHealth, Payload: "BP:120/80"},
		},
		{
			name:     "diet with payload",
			input:    "/diet vegan; allergies: nuts",
			expected: router.Classification{Intent: router.SetDiet, Payload: "vegan; allergies: nuts"},
		},
		{
			name:     "status command",
			input:    "/status",
			expected: router.Classification{Intent: router.Status},
		},
		{
			name:     "myrecipes command",
			input:    "/myrecipes",
			expected: router.Classification{Intent: router.ListRecipes},
		},
		{
			name:     "clear command",
			input:    "/clear",
			expected: router.Classification{Intent: router.ClearPreferences},
		},
		{
			name:     "command with botname suffix",
			input:    "/status@souschefbot",
			expected: router.Classification{Intent: router.Status},
		},
		{
			name:     "command with surrounding whitespace",
			input:    "  /help  ",
			expected: router.Classification{Intent: router.Help},
		},
		{
			name:     "free text ingredients",
			input:    "chicken, broccoli, quinoa",
			expected: router.Classification{Intent: router.FreeTextQuery, Payload: "chicken, broccoli, quinoa"},
		},
		{
			name:     "free text with slash in the middle",
			input:    "need a recipe w/ lentils",
			expected: router.Classification{Intent: router.FreeTextQuery, Payload: "need a recipe w/ lentils"},
		},
		{
			name:     "unknown command falls back to help",
			input:    "/bogus",
			expected: router.Classification{Intent: router.Help, Unknown: true},
		},
		{
			name:     "unknown command with payload",
			input:    "/recipe chicken",
			expected: router.Classification{Intent: router.Help, Unknown: true},
		},
		{
			name:     "multiline payload keeps only first line token",
			input:    "/diet vegan\nallergies: none",
			expected: router.Classification{Intent: router.SetDiet, Payload: "vegan\nallergies: none"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := router.Classify(tt.input)
			if result != tt.expected {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIntentString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		intent   router.Intent
		expected string
	}{
		{router.FreeTextQuery, "free_text_query"},
		{router.Start, "start"},
		{router.Help, "help"},
		{router.SetHealth, "set_health"},
		{router.SetDiet, "set_diet"},
		{router.Status, "status"},
		{router.ListRecipes, "list_recipes"},
		{router.ClearPreferences, "clear_preferences"},
	}

	for _, tt := range tests {
		if got := tt.intent.String(); got != tt.expected {
			t.Errorf("Intent(%d).String() = %q, want %q", tt.intent, got, tt.expected)
		}
	}
}
