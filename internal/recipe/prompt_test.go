package recipe_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rambo1111/sous-chef-bot/internal/database"
	"github.com/rambo1111/sous-chef-bot/internal/recipe"
)

func TestComposePrompt_WithPreferences(t *testing.T) {
	t.Parallel()

	pref := &database.UserPreference{
		UserID:              1,
		BloodPressure:       "high_stage1",
		DietaryRestrictions: "vegan",
		Allergies:           "peanuts",
	}

	prompt := recipe.ComposePrompt(pref, "pasta, tomato")

	assert.Contains(t, prompt, "AVAILABLE INGREDIENTS: pasta, tomato")
	assert.Contains(t, prompt, "- Blood Pressure: High Stage 1 (130-139/80-89) (recommend low-sodium options)")
	assert.Contains(t, prompt, "- Dietary Restrictions: vegan")
	assert.Contains(t, prompt, "- Allergies: peanuts")
	assert.NotContains(t, prompt, "Blood Sugar")
	assert.NotContains(t, prompt, "Cholesterol")
}

func TestComposePrompt_FreeFormReading(t *testing.T) {
	t.Parallel()

	pref := &database.UserPreference{BloodPressure: "120/80"}

	prompt := recipe.ComposePrompt(pref, "lentil soup")

	// Readings outside the canonical option set pass through verbatim.
	assert.Contains(t, prompt, "- Blood Pressure: 120/80 (recommend low-sodium options)")
}

func TestComposePrompt_NoPreferences(t *testing.T) {
	t.Parallel()

	prompt := recipe.ComposePrompt(&database.UserPreference{}, "rice and beans")

	assert.Contains(t, prompt, "AVAILABLE INGREDIENTS: rice and beans")
	assert.False(t, strings.Contains(prompt, "- "), "expected no preference bullet lines, got:\n%s", prompt)
	assert.Contains(t, prompt, "tailored to the health conditions")
}

func TestComposePrompt_NilPreference(t *testing.T) {
	t.Parallel()

	prompt := recipe.ComposePrompt(nil, "  eggs  ")

	assert.Contains(t, prompt, "AVAILABLE INGREDIENTS: eggs")
}
