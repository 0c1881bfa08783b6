package config

import "time"

// Default values for configuration
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = true

	DefaultDBProvider        = ProviderSqlite
	DefaultDBName            = "storage.db"
	DefaultDBPort            = 5432
	DefaultDBSSLMode         = "prefer"
	DefaultDBMaxOpenConns    = 10
	DefaultDBMaxIdleConns    = 5
	DefaultDBConnMaxLifetime = time.Hour

	DefaultPresence = "/help"

	DefaultStatusMaxLength = 64
	DefaultPromptTimeout   = time.Minute

	// Task names shared with the tasks registry.
	TaskStatusRotation = "status_rotation"
	TaskHousekeeping   = "housekeeping"

	DefaultStatusRotationOffset = 25 * time.Second
	DefaultStatusRotationPeriod = 10 * time.Minute
	DefaultHousekeepingOffset   = 35 * time.Second
	DefaultHousekeepingPeriod   = 12 * time.Hour
)

var defaults = map[string]any{
	"log.level": DefaultLogLevel,
	"log.json":  DefaultLogJSON,

	"database.provider":          DefaultDBProvider,
	"database.name":              DefaultDBName,
	"database.host":              "",
	"database.port":              DefaultDBPort,
	"database.user":              "",
	"database.password":          "",
	"database.sslmode":           DefaultDBSSLMode,
	"database.max_open_conns":    DefaultDBMaxOpenConns,
	"database.max_idle_conns":    DefaultDBMaxIdleConns,
	"database.conn_max_lifetime": DefaultDBConnMaxLifetime,

	"telegram.token":            "",
	"telegram.owner_id":         0,
	"telegram.default_presence": DefaultPresence,

	"bot.status_max_length": DefaultStatusMaxLength,
	"bot.listening":         true,
	"bot.status_rotation":   true,
	"bot.prompt_timeout":    DefaultPromptTimeout,

	"scheduler.tasks." + TaskStatusRotation + ".enabled": true,
	"scheduler.tasks." + TaskStatusRotation + ".offset":  DefaultStatusRotationOffset,
	"scheduler.tasks." + TaskStatusRotation + ".period":  DefaultStatusRotationPeriod,
	"scheduler.tasks." + TaskHousekeeping + ".enabled":   true,
	"scheduler.tasks." + TaskHousekeeping + ".offset":    DefaultHousekeepingOffset,
	"scheduler.tasks." + TaskHousekeeping + ".period":    DefaultHousekeepingPeriod,

	"metrics.listen_addr": "",
}
