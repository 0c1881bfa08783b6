package database

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// ActivityKind tags what a bot status says the bot is doing.
type ActivityKind int16

// Activity kinds shown next to a presence text.
const (
	ActivityPlaying ActivityKind = iota
	ActivityStreaming
	ActivityListeningTo
	ActivityWatching
	ActivityCustom
	ActivityCompeting
)

var activityNames = [...]string{
	ActivityPlaying:     "Playing",
	ActivityStreaming:   "Streaming",
	ActivityListeningTo: "ListeningTo",
	ActivityWatching:    "Watching",
	ActivityCustom:      "Custom",
	ActivityCompeting:   "Competing",
}

// Valid reports whether k is a known activity kind.
func (k ActivityKind) Valid() bool {
	return k >= ActivityPlaying && k <= ActivityCompeting
}

func (k ActivityKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("ActivityKind(%d)", int16(k))
	}
	return activityNames[k]
}

// Value implements driver.Valuer so every driver stores the kind as an integer.
func (k ActivityKind) Value() (driver.Value, error) {
	return int64(k), nil
}

// ParseActivityKind parses a case-insensitive activity kind name.
func ParseActivityKind(s string) (ActivityKind, error) {
	for i, name := range activityNames {
		if strings.EqualFold(name, s) {
			return ActivityKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown activity kind %q", s)
}

// PrivilegedUser is a user allowed to run privileged commands besides the owner.
type PrivilegedUser struct {
	UserID int64 `db:"user_id"`
}

// BotStatus is one entry of the presence rotation. ID is assigned by the
// store when the status is added with a zero ID.
type BotStatus struct {
	ID       int64        `db:"id"`
	Activity ActivityKind `db:"activity"`
	Status   string       `db:"status"`
}

// IgnoredUser marks a user whose updates are dropped in one chat.
type IgnoredUser struct {
	ChatID int64 `db:"chat_id"`
	UserID int64 `db:"user_id"`
}
