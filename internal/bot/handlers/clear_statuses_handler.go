package handlers

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/botkit/internal/interactive"
)

const clearStatusesQuestion = "Delete every stored status? Reply yes or no."

// NewClearStatusesHandler returns a handler that deletes every stored bot
// status after the sender confirms.
func NewClearStatusesHandler(deps HandlerDeps) bot.HandlerFunc {
	return clearStatusesHandler{deps}.Handle
}

type clearStatusesHandler struct {
	deps HandlerDeps
}

func (h clearStatusesHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "clear_statuses")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Clear statuses handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID
	ch, u := sessionKey(chatID, update.Message.From.ID)

	confirmed, err := h.deps.Prompter.WaitForConfirmation(ctx, ch, u, interactive.OnReady(func() {
		send(ctx, b, h.deps, chatID, clearStatusesQuestion)
	}))
	switch {
	case errors.Is(err, interactive.ErrPromptActive):
		send(ctx, b, h.deps, chatID, "Answer the pending question first.")
		return
	case err != nil:
		log.ErrorContext(ctx, "Confirmation failed", "error", err, "chat_id", chatID)
		return
	case !confirmed:
		send(ctx, b, h.deps, chatID, "Nothing was deleted.")
		return
	}

	n, err := h.deps.BotStatuses.Clear(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to clear bot statuses", "error", err)
		send(ctx, b, h.deps, chatID, "Failed to delete the statuses.")
		return
	}
	log.InfoContext(ctx, "Bot statuses cleared", "count", n)
	send(ctx, b, h.deps, chatID, "Statuses deleted.")
}
