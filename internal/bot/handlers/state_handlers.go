package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func send(ctx context.Context, b *bot.Bot, deps HandlerDeps, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		deps.Logger.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// NewListenHandler returns a handler toggling whether the bot processes
// updates from unprivileged users.
func NewListenHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		listening := deps.State.ToggleListening()
		deps.Logger.InfoContext(ctx, "Listening toggled", "listening", listening, "chat_id", update.Message.Chat.ID)
		send(ctx, b, deps, update.Message.Chat.ID, "Listening is now "+onOff(listening)+".")
	}
}

// NewRotationHandler returns a handler toggling the status rotation.
func NewRotationHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		enabled := deps.State.ToggleRotation()
		deps.Logger.InfoContext(ctx, "Status rotation toggled", "enabled", enabled, "chat_id", update.Message.Chat.ID)
		send(ctx, b, deps, update.Message.Chat.ID, "Status rotation is now "+onOff(enabled)+".")
	}
}

// NewUptimeHandler returns a handler reporting process and connection uptime.
func NewUptimeHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		send(ctx, b, deps, update.Message.Chat.ID, uptimeText(deps))
	}
}

func uptimeText(deps HandlerDeps) string {
	text := "Process uptime: " + deps.State.Uptime().Truncate(time.Second).String()
	if conn, ok := deps.State.ConnectionUptime(); ok {
		text += fmt.Sprintf("\nConnection uptime: %s", conn.Truncate(time.Second))
	} else {
		text += "\nConnection uptime: not connected"
	}
	return text
}
