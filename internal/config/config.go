// Package config provides configuration loading and validation for the
// Sous-Chef bot. Values come from defaults, an optional config.yaml, and
// BOT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-telegram/bot/models"
	"github.com/spf13/viper"
)

// Config holds all application configuration parameters.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot token and runtime bot identity.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`

	// BotInfo is populated at startup via GetMe, not from configuration.
	BotInfo *models.User `mapstructure:"-"`
}

// GeminiConfig holds settings for the Gemini recipe generator.
type GeminiConfig struct {
	APIKey            string        `mapstructure:"api_key"             validate:"required"`
	ModelName         string        `mapstructure:"model"               validate:"required"`
	Temperature       float32       `mapstructure:"temperature"         validate:"min=0,max=2"`
	MaxRetries        int           `mapstructure:"max_retries"         validate:"min=0,max=5"`
	RetryDelaySeconds int           `mapstructure:"retry_delay_seconds" validate:"min=1,max=60"`
	Timeout           time.Duration `mapstructure:"timeout"             validate:"min=1s,max=10m"`
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a named scheduled task with a cron expression.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// MessagesConfig holds every user-facing reply string.
type MessagesConfig struct {
	Welcome          string `mapstructure:"welcome"           validate:"required"`
	Help             string `mapstructure:"help"              validate:"required"`
	UnknownCommand   string `mapstructure:"unknown_command"   validate:"required"`
	GenerationError  string `mapstructure:"generation_error"  validate:"required"`
	StoreUnavailable string `mapstructure:"store_unavailable" validate:"required"`
	HealthUsage      string `mapstructure:"health_usage"      validate:"required"`
	HealthSaved      string `mapstructure:"health_saved"      validate:"required"`
	DietUsage        string `mapstructure:"diet_usage"        validate:"required"`
	DietSaved        string `mapstructure:"diet_saved"        validate:"required"`
	NoPreferences    string `mapstructure:"no_preferences"    validate:"required"`
	NoRecipes        string `mapstructure:"no_recipes"        validate:"required"`
	Cleared          string `mapstructure:"cleared"           validate:"required"`
	RecipeSaved      string `mapstructure:"recipe_saved"      validate:"required"`
	RecipeDeleted    string `mapstructure:"recipe_deleted"    validate:"required"`
	RecipeNotFound   string `mapstructure:"recipe_not_found"  validate:"required"`
}

// LoadConfig loads and validates configuration from:
// 1. Default values
// 2. The YAML file at configPath (optional)
// 3. BOT_* environment variables
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// A missing config file is fine, everything can come from env vars.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", true)

	// Empty defaults register the secret keys with viper so they can be
	// supplied through BOT_* environment variables alone.
	v.SetDefault("telegram.token", "")
	v.SetDefault("gemini.api_key", "")

	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.temperature", 1.0)
	v.SetDefault("gemini.max_retries", 2)
	v.SetDefault("gemini.retry_delay_seconds", 5)
	v.SetDefault("gemini.timeout", 2*time.Minute)

	v.SetDefault("database.path", "souschef.db")

	v.SetDefault("scheduler.tasks.store_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.store_maintenance.schedule", "0 0 4 * * *")

	v.SetDefault("messages.welcome", defaultWelcome)
	v.SetDefault("messages.help", defaultHelp)
	v.SetDefault("messages.unknown_command", "🤔 I don't know that command.")
	v.SetDefault("messages.generation_error", "❌ Sorry, I couldn't generate a recipe right now. Please try again with different ingredients or check if your message is clear.")
	v.SetDefault("messages.store_unavailable", "⚠️ Your preferences are temporarily unavailable. Please try again in a moment.")
	v.SetDefault("messages.health_usage", "🏥 Send your stats as key:value pairs, e.g.\n/health bp:normal, sugar:prediabetic, cholesterol:high\nKnown keys: bp, sugar, cholesterol.")
	v.SetDefault("messages.health_saved", "✅ Health information saved!")
	v.SetDefault("messages.diet_usage", "🌱 Send your preferences like:\n/diet vegan, keto; allergies: nuts, dairy\nThe first part may also be labeled: /diet restrictions: vegan; allergies: nuts\nUse none to clear a part.")
	v.SetDefault("messages.diet_saved", "✅ Dietary preferences saved!\nNow you can send me ingredients or describe what you want to cook!")
	v.SetDefault("messages.no_preferences", "📋 You haven't set any preferences yet.\nUse /health and /diet to set your preferences.")
	v.SetDefault("messages.no_recipes", "You have no saved recipes yet. Start creating one by sending me ingredients!")
	v.SetDefault("messages.cleared", "✅ All your preferences have been cleared!\nYou can set them again using /health and /diet commands.")
	v.SetDefault("messages.recipe_saved", "Recipe saved successfully!")
	v.SetDefault("messages.recipe_deleted", "🗑️ Recipe successfully deleted.")
	v.SetDefault("messages.recipe_not_found", "❌ Recipe not found. It might have been deleted.")
}

const defaultWelcome = `🍳 Welcome to Sous-Chef AI!

I'm your personal AI nutritionist and chef! I can help you create healthy, personalized recipes based on:

🥕 Your ingredients
🏥 Your health conditions
🌱 Your dietary preferences
🚫 Your allergies

How to use me:
• Just send me your ingredients or describe your situation
• Use /health to set your health information
• Use /diet to set dietary preferences
• Use /help for more options

Example messages:
• "chicken, broccoli, quinoa"
• "just finished workout, need protein"
• "need quick healthy lunch"

Let's start cooking! 🎉`

const defaultHelp = `🆘 Sous-Chef AI Help

Commands:
/start - Start the bot
/help - Show this help message
/health - Set your health information
/diet - Set dietary preferences and allergies
/myrecipes - View your saved recipes
/clear - Clear all your saved preferences
/status - View your current preferences

How to create recipes:
Just send me a message with:
• Ingredients you have
• Your cooking situation
• What you're feeling like eating

Examples:
"salmon, asparagus, lemon"
"need energy boost breakfast"
"quick dinner for weight loss"

I'll create a personalized recipe just for you! 🍽️`
