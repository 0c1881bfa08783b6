// Package database provides store setup, migrations, entity models, and the
// generic repositories every persisted entity type is accessed through.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"github.com/edgard/botkit/internal/config"
	"github.com/edgard/botkit/migrations"

	_ "github.com/jackc/pgx/v5/stdlib" //revive:disable:blank-imports
	_ "modernc.org/sqlite"             //revive:disable:blank-imports
)

// NewDB opens the configured store, applies migrations, and returns the connection pool.
func NewDB(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	driver, dsn, err := DataSource(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	configurePool(db, cfg)

	if err := ApplyMigrations(db.DB, cfg.Provider); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("Error closing database after migration failure", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	slog.Info("Database connected and migrations applied successfully", "provider", cfg.Provider, "name", cfg.Name)
	return db, nil
}

// CloseDB closes the database connection pool.
func CloseDB(db *sqlx.DB) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		slog.Error("Error closing database connection", "error", err)
	} else {
		slog.Info("Database connection closed successfully.")
	}
}

// DataSource returns the database/sql driver name and DSN for the configured provider.
func DataSource(cfg config.DatabaseConfig) (driver, dsn string, err error) {
	switch cfg.Provider {
	case config.ProviderSqlite:
		return "sqlite", sqliteDSN(cfg.Name), nil
	case config.ProviderSqliteMemory:
		return "sqlite", "file::memory:?_pragma=foreign_keys(1)", nil
	case config.ProviderPostgres:
		return "pgx", postgresDSN(cfg), nil
	default:
		return "", "", fmt.Errorf("unsupported database provider %q", cfg.Provider)
	}
}

func sqliteDSN(name string) string {
	if strings.HasPrefix(name, "file:") {
		return name
	}
	return "file:" + name + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
}

func postgresDSN(cfg config.DatabaseConfig) string {
	port := cfg.Port
	if port == 0 {
		port = config.DefaultDBPort
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		Path:   "/" + cfg.Name,
	}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	if cfg.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {cfg.SSLMode}}.Encode()
	}
	return u.String()
}

func configurePool(db *sqlx.DB, cfg config.DatabaseConfig) {
	switch cfg.Provider {
	case config.ProviderSqliteMemory:
		// Every connection to :memory: is a separate database, so the single
		// connection must never be recycled.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	case config.ProviderSqlite:
		// SQLite doesn't support concurrent writes, so max open conns = 1
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	default:
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

// ApplyMigrations runs the embedded migrations of the given provider.
// The migration driver is never closed since closing it would close db.
func ApplyMigrations(db *sql.DB, provider string) error {
	if db == nil {
		return errors.New("database connection is nil, cannot apply migrations")
	}

	var (
		dir      string
		dbDriver migratedb.Driver
		err      error
	)
	switch provider {
	case config.ProviderSqlite, config.ProviderSqliteMemory:
		dir = "sqlite"
		dbDriver, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	case config.ProviderPostgres:
		dir = "postgres"
		dbDriver, err = migratepgx.WithInstance(db, &migratepgx.Config{})
	default:
		return fmt.Errorf("unsupported database provider %q", provider)
	}
	if err != nil {
		return fmt.Errorf("failed to create %s migration driver: %w", provider, err)
	}

	slog.Info("Applying database migrations...", "provider", provider)

	sourceDriver, err := iofs.New(migrations.FS, dir)
	if err != nil {
		return fmt.Errorf("failed to create embed source driver instance: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", sourceDriver, dir, dbDriver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			slog.Info("No database migrations to apply.")
			return nil
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	slog.Info("Database migrations applied successfully.")
	return nil
}
