package recipe

import (
	"strings"

	"github.com/rambo1111/sous-chef-bot/internal/database"
)

// ComposePrompt builds the generation prompt from the user's stored
// preferences and the free-text ingredient/context line. Unset preference
// fields are omitted entirely rather than rendered as placeholders.
func ComposePrompt(pref *database.UserPreference, freeText string) string {
	var sb strings.Builder

	sb.WriteString("You are a professional nutritionist and chef. Create a detailed, healthy recipe using the following information:\n\n")
	sb.WriteString("AVAILABLE INGREDIENTS: ")
	sb.WriteString(strings.TrimSpace(freeText))
	sb.WriteString("\n\nHEALTH CONSIDERATIONS:\n")

	if pref != nil {
		if pref.BloodPressure != "" {
			sb.WriteString("- Blood Pressure: " + HealthLabel(KeyBloodPressure, pref.BloodPressure) + " (recommend low-sodium options)\n")
		}
		if pref.BloodSugar != "" {
			sb.WriteString("- Blood Sugar Level: " + HealthLabel(KeyBloodSugar, pref.BloodSugar) + " (recommend low-glycemic options)\n")
		}
		if pref.Cholesterol != "" {
			sb.WriteString("- Cholesterol Level: " + HealthLabel(KeyCholesterol, pref.Cholesterol) + " (recommend heart-healthy options)\n")
		}
		if pref.DietaryRestrictions != "" {
			sb.WriteString("- Dietary Restrictions: " + pref.DietaryRestrictions + "\n")
		}
		if pref.Allergies != "" {
			sb.WriteString("- Allergies: " + pref.Allergies + "\n")
		}
	}

	sb.WriteString("\nMake sure the recipe is tailored to the health conditions and dietary needs mentioned above.\n")

	return sb.String()
}
