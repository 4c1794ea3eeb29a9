package handlers

import (
	"log/slog"

	"github.com/rambo1111/sous-chef-bot/internal/config"
	"github.com/rambo1111/sous-chef-bot/internal/session"
)

// HandlerDeps provides dependencies for Telegram update handlers.
type HandlerDeps struct {
	Logger       *slog.Logger
	Config       *config.Config
	Orchestrator *session.Orchestrator
}
