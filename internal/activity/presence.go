package activity

import (
	"context"

	"github.com/edgard/botkit/internal/database"
)

//go:generate mockgen -source=presence.go -destination=activitymock/presence.go -package=activitymock

// Presence is what the bot shows next to its name.
type Presence struct {
	Kind database.ActivityKind
	Text string
}

// PresenceSink publishes a presence to the chat platform.
type PresenceSink interface {
	SetPresence(ctx context.Context, p Presence) error
}

// StatusSource lists the persisted statuses the rotation picks from.
type StatusSource interface {
	Get(ctx context.Context) ([]database.BotStatus, error)
}

// PresenceOf converts a stored status into a presence.
func PresenceOf(s database.BotStatus) Presence {
	return Presence{Kind: s.Activity, Text: s.Status}
}
