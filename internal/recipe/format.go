package recipe

import (
	"fmt"
	"strings"

	"github.com/rambo1111/sous-chef-bot/internal/database"
)

// markdownSpecials are the characters MarkdownV2 requires escaping for.
const markdownSpecials = `*_[]()~` + "`" + `>#+-=|{}.!`

// EscapeMarkdown escapes Telegram MarkdownV2 special characters.
func EscapeMarkdown(text string) string {
	if text == "" {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(markdownSpecials, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// StripMarkdown removes the formatting markers for a plain-text fallback
// when Telegram rejects a MarkdownV2 message.
func StripMarkdown(text string) string {
	return strings.NewReplacer("*", "", "\\", "").Replace(text)
}

// FormatCard renders the main recipe view as a MarkdownV2 message.
func FormatCard(card *Card) string {
	r := card.Recipe
	var sb strings.Builder

	sb.WriteString("🍳 *" + EscapeMarkdown(r.Name) + "*\n\n")

	sb.WriteString("⏱️ *Prep:* " + EscapeMarkdown(r.PrepTime) + "\n")
	sb.WriteString("🔥 *Cook:* " + EscapeMarkdown(r.CookTime) + "\n")
	sb.WriteString("⏰ *Total:* " + EscapeMarkdown(r.TotalTime) + "\n")
	sb.WriteString("🍽️ *Serves:* " + EscapeMarkdown(r.Servings) + "\n\n")

	sb.WriteString("🥘 *Ingredients:*\n")
	for _, ingredient := range r.Ingredients {
		sb.WriteString("• " + EscapeMarkdown(ingredient) + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString("👨‍🍳 *Instructions:*\n")
	for i, instruction := range r.Instructions {
		sb.WriteString(fmt.Sprintf("%d\\. %s\n", i+1, EscapeMarkdown(instruction)))
	}
	sb.WriteString("\n")

	if len(r.HealthTips) > 0 {
		sb.WriteString("💡 *Health Tips:*\n")
		for _, tip := range r.HealthTips {
			sb.WriteString("• " + EscapeMarkdown(tip) + "\n")
		}
		sb.WriteString("\n")
	}

	if r.Storage != "" {
		sb.WriteString("🗄️ *Storage:* " + EscapeMarkdown(r.Storage) + "\n")
	}

	return sb.String()
}

// FormatNutrition renders the nutritional breakdown view.
func FormatNutrition(card *Card) string {
	n := card.NutritionalInfo
	var sb strings.Builder

	sb.WriteString("📊 *Nutritional Information*\n")
	sb.WriteString("Per serving breakdown:\n\n")

	sb.WriteString("🔥 *Calories:* " + EscapeMarkdown(n.CaloriesPerServing) + "\n")
	sb.WriteString("🥩 *Protein:* " + EscapeMarkdown(n.Protein) + "\n")
	sb.WriteString("🍞 *Carbs:* " + EscapeMarkdown(n.Carbs) + "\n")
	sb.WriteString("🥑 *Fat:* " + EscapeMarkdown(n.Fat) + "\n")
	sb.WriteString("🌾 *Fiber:* " + EscapeMarkdown(n.Fiber) + "\n")
	sb.WriteString("🧂 *Sodium:* " + EscapeMarkdown(n.Sodium) + "\n\n")

	if len(n.HealthBenefits) > 0 {
		sb.WriteString("🌟 *Health Benefits:*\n")
		for _, benefit := range n.HealthBenefits {
			sb.WriteString("• " + EscapeMarkdown(benefit) + "\n")
		}
	}

	return sb.String()
}

// FormatFacts renders the recipe-facts view.
func FormatFacts(card *Card) string {
	f := card.RecipeFacts
	var sb strings.Builder

	sb.WriteString("🧠 *Recipe Facts*\n\n")

	sb.WriteString("🌍 *Cuisine:* " + EscapeMarkdown(f.CuisineType) + "\n")
	sb.WriteString("📈 *Difficulty:* " + EscapeMarkdown(f.Difficulty) + "\n")
	sb.WriteString("🍽️ *Meal Type:* " + EscapeMarkdown(f.MealType) + "\n")

	if len(f.DietaryTags) > 0 {
		sb.WriteString("🏷️ *Tags:* " + EscapeMarkdown(strings.Join(f.DietaryTags, ", ")) + "\n\n")
	}

	if len(f.FunFacts) > 0 {
		sb.WriteString("🎯 *Did You Know?*\n")
		for _, fact := range f.FunFacts {
			sb.WriteString("💡 " + EscapeMarkdown(fact) + "\n")
		}
	}

	return sb.String()
}

// FormatStatus renders the user's current preferences as a MarkdownV2
// summary. Unset sections are omitted.
func FormatStatus(pref *database.UserPreference) string {
	var sb strings.Builder

	sb.WriteString("📋 *Your Current Preferences:*\n\n")

	if pref.BloodPressure != "" || pref.BloodSugar != "" || pref.Cholesterol != "" {
		sb.WriteString("🏥 *Health Information:*\n")
		if pref.BloodPressure != "" {
			sb.WriteString("• Blood Pressure: " + EscapeMarkdown(HealthLabel(KeyBloodPressure, pref.BloodPressure)) + "\n")
		}
		if pref.BloodSugar != "" {
			sb.WriteString("• Blood Sugar: " + EscapeMarkdown(HealthLabel(KeyBloodSugar, pref.BloodSugar)) + "\n")
		}
		if pref.Cholesterol != "" {
			sb.WriteString("• Cholesterol: " + EscapeMarkdown(HealthLabel(KeyCholesterol, pref.Cholesterol)) + "\n")
		}
		sb.WriteString("\n")
	}

	if pref.DietaryRestrictions != "" || pref.Allergies != "" {
		sb.WriteString("🌱 *Dietary Information:*\n")
		if pref.DietaryRestrictions != "" {
			sb.WriteString("• Restrictions: " + EscapeMarkdown(pref.DietaryRestrictions) + "\n")
		}
		if pref.Allergies != "" {
			sb.WriteString("• Allergies: " + EscapeMarkdown(pref.Allergies) + "\n")
		}
	}

	return sb.String()
}

// TruncateTitle shortens a recipe name to fit an inline button label.
// maxLen counts runes; cutting mid-rune would hand Telegram invalid UTF-8.
func TruncateTitle(title string, maxLen int) string {
	runes := []rune(title)
	if len(runes) <= maxLen {
		return title
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
