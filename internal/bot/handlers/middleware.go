// Package handlers contains the Telegram handlers owned by the bot core,
// the middleware gating every update, and their registration.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// isPrivileged reports whether userID is the owner or a stored privileged user.
func isPrivileged(ctx context.Context, deps HandlerDeps, userID int64) (bool, error) {
	if userID == deps.Config.Telegram.OwnerID {
		return true, nil
	}
	if deps.PrivilegedUsers == nil {
		return false, nil
	}
	return deps.PrivilegedUsers.Contains(ctx, userID)
}

// PrivilegedOnly drops updates from senders that are neither the owner nor
// a privileged user.
func PrivilegedOnly(deps HandlerDeps) tgbot.Middleware {
	log := deps.Logger.With("middleware", "PrivilegedOnly")
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			chatID, userID, ok := origin(update)
			if !ok {
				return
			}
			allowed, err := isPrivileged(ctx, deps, userID)
			if err != nil {
				log.ErrorContext(ctx, "Failed to check privileged users", "error", err, "user_id", userID)
				return
			}
			if !allowed {
				log.WarnContext(ctx, "Unauthorized access attempt", "user_id", userID, "chat_id", chatID)
				return
			}
			next(ctx, bot, update)
		}
	}
}

// ListeningGate lets every update through while the bot is listening.
// Otherwise only privileged senders get through.
func ListeningGate(deps HandlerDeps) tgbot.Middleware {
	log := deps.Logger.With("middleware", "ListeningGate")
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if deps.State.IsListening() {
				next(ctx, bot, update)
				return
			}
			_, userID, ok := origin(update)
			if !ok {
				return
			}
			allowed, err := isPrivileged(ctx, deps, userID)
			if err != nil {
				log.ErrorContext(ctx, "Failed to check privileged users", "error", err, "user_id", userID)
				return
			}
			if !allowed {
				log.DebugContext(ctx, "Not listening, dropping update", "user_id", userID)
				return
			}
			next(ctx, bot, update)
		}
	}
}

// NoPendingReply drops commands from a user who has a prompt waiting for a
// reply in the same chat.
func NoPendingReply(deps HandlerDeps) tgbot.Middleware {
	log := deps.Logger.With("middleware", "NoPendingReply")
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			chatID, userID, ok := origin(update)
			if ok && deps.Guard.IsPending(sessionKey(chatID, userID)) {
				log.DebugContext(ctx, "Prompt pending, dropping command", "user_id", userID, "chat_id", chatID)
				return
			}
			next(ctx, bot, update)
		}
	}
}

// IgnoredUsersFilter drops updates from users ignored in the originating chat.
// A failed lookup lets the update through.
func IgnoredUsersFilter(deps HandlerDeps) tgbot.Middleware {
	log := deps.Logger.With("middleware", "IgnoredUsersFilter")
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			chatID, userID, ok := origin(update)
			if ok && deps.IgnoredUsers != nil {
				ignored, err := deps.IgnoredUsers.Contains(ctx, chatID, userID)
				if err != nil {
					log.ErrorContext(ctx, "Failed to check ignored users", "error", err, "user_id", userID, "chat_id", chatID)
				} else if ignored {
					log.DebugContext(ctx, "Ignored user, dropping update", "user_id", userID, "chat_id", chatID)
					return
				}
			}
			next(ctx, bot, update)
		}
	}
}
