package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewReplyHandler returns the default handler. It hands plain messages to
// the prompt waiting for them, if any.
func NewReplyHandler(deps HandlerDeps) bot.HandlerFunc {
	return replyHandler{deps}.Handle
}

type replyHandler struct {
	deps HandlerDeps
}

func (h replyHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}
	chatID, userID := update.Message.Chat.ID, update.Message.From.ID
	ch, u := sessionKey(chatID, userID)
	if !h.deps.Guard.IsPending(ch, u) {
		return
	}

	if h.deps.Prompter.Deliver(ch, u, update.Message.Text) {
		h.deps.Logger.DebugContext(ctx, "Delivered reply to pending prompt", "chat_id", chatID, "user_id", userID)
	}
}
