package tasks

import (
	"context"

	"github.com/edgard/botkit/internal/config"
)

// ScheduledTaskFunc is the signature of every periodic task. The context is
// cancelled when the scheduler stops and carries the task logger.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns every task keyed by the name used in the
// scheduler.tasks configuration section.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := map[string]ScheduledTaskFunc{
		config.TaskStatusRotation: newStatusRotationTask(deps),
		config.TaskHousekeeping:   newHousekeepingTask(deps),
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
