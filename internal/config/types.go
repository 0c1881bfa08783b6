// Package config provides configuration loading, validation, and management
// for the bot. It reads a YAML file, overlays BOT_* environment variables,
// fills defaults for optional fields, and validates the result.
package config

import "time"

// Store providers understood by the database package.
const (
	ProviderSqlite       = "sqlite"
	ProviderSqliteMemory = "sqlite-memory"
	ProviderPostgres     = "postgres"
)

// Config defines the application configuration parameters for all components.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Bot       BotConfig       `mapstructure:"bot"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// LoggerConfig controls the slog handler built at startup.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// DatabaseConfig selects the backing store and its connection parameters.
// Host, Port, User, Password and SSLMode only apply to the postgres provider.
type DatabaseConfig struct {
	Provider        string        `mapstructure:"provider"          validate:"oneof=sqlite sqlite-memory postgres"`
	Name            string        `mapstructure:"name"              validate:"required_unless=Provider sqlite-memory"`
	Host            string        `mapstructure:"host"              validate:"required_if=Provider postgres"`
	Port            int           `mapstructure:"port"              validate:"min=0,max=65535"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"sslmode"           validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    validate:"min=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    validate:"min=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"min=0"`
}

// TelegramConfig holds the transport credentials and presence defaults.
type TelegramConfig struct {
	Token           string `mapstructure:"token"            validate:"required"`
	OwnerID         int64  `mapstructure:"owner_id"         validate:"gt=0"`
	DefaultPresence string `mapstructure:"default_presence" validate:"required,max=120"`
}

// BotConfig holds runtime behaviour of the bot core.
type BotConfig struct {
	// StatusMaxLength bounds the text of a persisted bot status.
	StatusMaxLength int           `mapstructure:"status_max_length" validate:"min=1,max=120"`
	Listening       bool          `mapstructure:"listening"`
	StatusRotation  bool          `mapstructure:"status_rotation"`
	PromptTimeout   time.Duration `mapstructure:"prompt_timeout"    validate:"min=1s,max=1h"`
}

// SchedulerConfig holds the periodic task definitions keyed by task name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig configures one periodic task. Offset delays the first run,
// Period is the interval between runs.
type TaskConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Offset  time.Duration `mapstructure:"offset" validate:"min=0"`
	Period  time.Duration `mapstructure:"period" validate:"min=1s"`
}

// MetricsConfig enables the Prometheus endpoint when ListenAddr is set.
type MetricsConfig struct {
	ListenAddr string `mapstructure:"listen_addr" validate:"omitempty,hostname_port"`
}
