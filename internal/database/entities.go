package database

import (
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
)

// Concrete repositories of the bot.
type (
	PrivilegedUsers = Repository[PrivilegedUser, int64]
	BotStatuses     = Repository[BotStatus, int64]
	IgnoredUsers    = GroupedRepository[IgnoredUser, int64, int64]
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewPrivilegedUserRepository returns the repository of users allowed to run
// privileged commands, keyed by user id.
func NewPrivilegedUserRepository(db *sqlx.DB, logger *slog.Logger) *PrivilegedUsers {
	return NewRepository(db, logger, Entity[PrivilegedUser, int64]{
		Table:      "privileged_users",
		Columns:    []string{"user_id"},
		KeyColumns: []string{"user_id"},
		Identity:   func(u PrivilegedUser) int64 { return u.UserID },
		PrimaryKey: func(id int64) []any { return []any{id} },
		Factory:    func(id int64) PrivilegedUser { return PrivilegedUser{UserID: id} },
	})
}

// NewBotStatusRepository returns the repository of rotating statuses. Status
// text longer than maxLength characters is rejected.
func NewBotStatusRepository(db *sqlx.DB, logger *slog.Logger, maxLength int) *BotStatuses {
	return NewRepository(db, logger, Entity[BotStatus, int64]{
		Table:      "bot_statuses",
		Columns:    []string{"id", "activity", "status"},
		KeyColumns: []string{"id"},
		Generated:  true,
		Identity:   func(s BotStatus) int64 { return s.ID },
		PrimaryKey: func(id int64) []any { return []any{id} },
		Factory:    func(id int64) BotStatus { return BotStatus{ID: id} },
		Validate:   statusValidator(maxLength),
	})
}

func statusValidator(maxLength int) func(BotStatus) error {
	rule := fmt.Sprintf("required,max=%d", maxLength)
	return func(s BotStatus) error {
		if !s.Activity.Valid() {
			return fmt.Errorf("unknown activity kind %d", int16(s.Activity))
		}
		if err := validate.Var(s.Status, rule); err != nil {
			return fmt.Errorf("status text: %w", err)
		}
		return nil
	}
}

// NewIgnoredUserRepository returns the repository of users ignored per chat,
// grouped by chat id.
func NewIgnoredUserRepository(db *sqlx.DB, logger *slog.Logger) *IgnoredUsers {
	return NewGroupedRepository(db, logger, GroupedEntity[IgnoredUser, int64, int64]{
		Table:      "ignored_users",
		Columns:    []string{"chat_id", "user_id"},
		KeyColumns: []string{"chat_id", "user_id"},
		Group:      func(u IgnoredUser) int64 { return u.ChatID },
		Identity:   func(u IgnoredUser) int64 { return u.UserID },
		PrimaryKey: func(chatID, userID int64) []any { return []any{chatID, userID} },
		Factory:    func(chatID, userID int64) IgnoredUser { return IgnoredUser{ChatID: chatID, UserID: userID} },
		Scope:      func(chatID int64) (string, []any) { return "chat_id = ?", []any{chatID} },
	})
}
