// Package tasks implements the periodic tasks run by the bot scheduler.
package tasks

import (
	"context"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/edgard/botkit/internal/activity"
)

// Maintainer runs store maintenance.
type Maintainer interface {
	RunMaintenance(ctx context.Context) error
}

// TaskDeps contains the dependencies shared by the periodic tasks.
type TaskDeps struct {
	Logger   *slog.Logger
	State    *activity.State
	Presence activity.PresenceSink
	// Maintainer is optional; without it housekeeping does nothing.
	Maintainer Maintainer
	// DefaultPresence is shown when no status is stored.
	DefaultPresence string
	// Clock times the tasks. Nil means the real clock.
	Clock clockwork.Clock
}

func (d TaskDeps) clock() clockwork.Clock {
	if d.Clock == nil {
		return clockwork.NewRealClock()
	}
	return d.Clock
}
