// Package recipe holds the generated-recipe domain: the card structure the
// generator must produce, prompt composition, payload parsing for the
// /health and /diet commands, and Telegram message formatting.
package recipe

// Card is the full structured output of one generation: the recipe itself,
// its nutritional breakdown, and assorted facts.
type Card struct {
	Recipe          Details   `json:"recipe"`
	NutritionalInfo Nutrition `json:"nutritional_info"`
	RecipeFacts     Facts     `json:"recipe_facts"`
}

// Details describes the dish and how to cook it.
type Details struct {
	Name         string   `json:"name"`
	PrepTime     string   `json:"prep_time"`
	CookTime     string   `json:"cook_time"`
	TotalTime    string   `json:"total_time"`
	Servings     string   `json:"servings"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	HealthTips   []string `json:"health_tips"`
	Storage      string   `json:"storage"`
}

// Nutrition is the per-serving nutritional breakdown.
type Nutrition struct {
	CaloriesPerServing string   `json:"calories_per_serving"`
	Protein            string   `json:"protein"`
	Carbs              string   `json:"carbs"`
	Fat                string   `json:"fat"`
	Fiber              string   `json:"fiber"`
	Sodium             string   `json:"sodium"`
	HealthBenefits     []string `json:"health_benefits"`
}

// Facts carries cuisine metadata and trivia about the dish.
type Facts struct {
	CuisineType string   `json:"cuisine_type"`
	Difficulty  string   `json:"difficulty"`
	MealType    string   `json:"meal_type"`
	DietaryTags []string `json:"dietary_tags"`
	FunFacts    []string `json:"fun_facts"`
}
