package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"

	"github.com/edgard/botkit/internal/activity"
	"github.com/edgard/botkit/internal/database"
)

// Presence shows the bot presence as its profile short description, the
// closest Telegram has to an activity line.
type Presence struct {
	bot *bot.Bot
}

var _ activity.PresenceSink = (*Presence)(nil)

func NewPresence(b *bot.Bot) *Presence {
	return &Presence{bot: b}
}

func (p *Presence) SetPresence(ctx context.Context, presence activity.Presence) error {
	_, err := p.bot.SetMyShortDescription(ctx, &bot.SetMyShortDescriptionParams{
		ShortDescription: PresenceText(presence),
	})
	if err != nil {
		return fmt.Errorf("failed to set short description: %w", err)
	}
	return nil
}

// PresenceText renders p the way a chat client shows an activity.
func PresenceText(p activity.Presence) string {
	switch p.Kind {
	case database.ActivityPlaying:
		return "Playing " + p.Text
	case database.ActivityStreaming:
		return "Streaming " + p.Text
	case database.ActivityListeningTo:
		return "Listening to " + p.Text
	case database.ActivityWatching:
		return "Watching " + p.Text
	case database.ActivityCompeting:
		return "Competing in " + p.Text
	default:
		return p.Text
	}
}
