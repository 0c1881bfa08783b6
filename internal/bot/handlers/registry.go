package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents a handler with its pattern and middleware.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// CommandMiddleware is applied to every command: it honours the listening
// flag and keeps users with a pending prompt from starting another command.
func CommandMiddleware(deps HandlerDeps) []tgbot.Middleware {
	return []tgbot.Middleware{ListeningGate(deps), NoPendingReply(deps)}
}

// PrivilegedCommandMiddleware is CommandMiddleware restricted to the owner
// and privileged users.
func PrivilegedCommandMiddleware(deps HandlerDeps) []tgbot.Middleware {
	return append([]tgbot.Middleware{PrivilegedOnly(deps)}, CommandMiddleware(deps)...)
}

// RegisterAllCommands returns the state management commands owned by the bot core.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)
	privileged := PrivilegedCommandMiddleware(deps)

	handlers["/uptime"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "uptime",
		Handler:     NewUptimeHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  CommandMiddleware(deps),
	}
	handlers["/listen"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "listen",
		Handler:     NewListenHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  privileged,
	}
	handlers["/rotation"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "rotation",
		Handler:     NewRotationHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  privileged,
	}
	handlers["/clear_statuses"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "clear_statuses",
		Handler:     NewClearStatusesHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  privileged,
	}

	return handlers
}
