package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/edgard/botkit/internal/config"
)

// Maintainer runs provider specific store maintenance.
type Maintainer struct {
	db       *sqlx.DB
	provider string
	logger   *slog.Logger
}

// NewMaintainer creates a Maintainer for db opened with the given provider.
func NewMaintainer(db *sqlx.DB, provider string, logger *slog.Logger) *Maintainer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Maintainer{db: db, provider: provider, logger: logger.With("component", "maintenance")}
}

func (m *Maintainer) statements() []string {
	if m.provider == config.ProviderPostgres {
		return []string{"ANALYZE;"}
	}
	// VACUUM must run outside a transaction in SQLite.
	return []string{"PRAGMA optimize;", "VACUUM;"}
}

// RunMaintenance refreshes planner statistics and, on SQLite, compacts the file.
func (m *Maintainer) RunMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		m.logger.WarnContext(ctx, "Context cancelled or timed out before starting maintenance", "error", ctx.Err())
		return ctx.Err()
	}

	m.logger.InfoContext(ctx, "Starting database maintenance...", "provider", m.provider)

	for _, stmt := range m.statements() {
		_, err := m.db.ExecContext(ctx, stmt)
		switch {
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
			m.logger.WarnContext(ctx, "Database maintenance timed out or was cancelled", "statement", stmt, "error", err)
			return fmt.Errorf("database maintenance (%s) timed out: %w", stmt, err)
		case err != nil:
			m.logger.ErrorContext(ctx, "Database maintenance failed", "statement", stmt, "error", err)
			return fmt.Errorf("failed to execute %s: %w", stmt, err)
		}
	}

	m.logger.InfoContext(ctx, "Database maintenance completed successfully")
	return nil
}
