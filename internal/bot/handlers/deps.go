package handlers

import (
	"log/slog"

	"github.com/edgard/botkit/internal/activity"
	"github.com/edgard/botkit/internal/config"
	"github.com/edgard/botkit/internal/database"
	"github.com/edgard/botkit/internal/interactive"
	"github.com/edgard/botkit/internal/session"
)

// HandlerDeps provides dependencies for Telegram handlers and middleware.
type HandlerDeps struct {
	Logger          *slog.Logger
	Config          *config.Config
	State           *activity.State
	Guard           *session.Guard
	Prompter        *interactive.Prompter
	PrivilegedUsers *database.PrivilegedUsers
	IgnoredUsers    *database.IgnoredUsers
	BotStatuses     *database.BotStatuses
}
