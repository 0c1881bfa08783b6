package handlers

import (
	"github.com/go-telegram/bot/models"

	"github.com/edgard/botkit/internal/session"
)

// origin returns the chat and sender of a message or callback update.
func origin(update *models.Update) (chatID, userID int64, ok bool) {
	switch {
	case update == nil:
		return 0, 0, false
	case update.Message != nil:
		if update.Message.From == nil {
			return 0, 0, false
		}
		return update.Message.Chat.ID, update.Message.From.ID, true
	case update.CallbackQuery != nil:
		if m := update.CallbackQuery.Message.Message; m != nil {
			return m.Chat.ID, update.CallbackQuery.From.ID, true
		}
		if m := update.CallbackQuery.Message.InaccessibleMessage; m != nil {
			return m.Chat.ID, update.CallbackQuery.From.ID, true
		}
	}
	return 0, 0, false
}

// sessionKey maps Telegram ids onto the guard key space. Group chat ids are
// negative, so the conversion keeps all 64 bits.
func sessionKey(chatID, userID int64) (session.ChannelID, session.UserID) {
	return session.ChannelID(uint64(chatID)), session.UserID(uint64(userID))
}
