// Package tasks implements scheduled tasks for the Sous-Chef Telegram bot.
// It includes task definitions, dependencies, and registration mechanisms.
package tasks

import (
	"log/slog"

	"github.com/rambo1111/sous-chef-bot/internal/config"
	"github.com/rambo1111/sous-chef-bot/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}
