package tasks

import (
	"context"
	"fmt"

	slogctx "github.com/veqryn/slog-context"
)

// newHousekeepingTask creates the task running store maintenance.
func newHousekeepingTask(deps TaskDeps) ScheduledTaskFunc {
	clock := deps.clock()
	return func(ctx context.Context) error {
		log := slogctx.FromCtx(ctx)

		if deps.Maintainer == nil {
			log.DebugContext(ctx, "No maintainer configured, skipping housekeeping")
			return nil
		}

		log.InfoContext(ctx, "Starting scheduled housekeeping task...")
		startTime := clock.Now()

		err := deps.Maintainer.RunMaintenance(ctx)

		duration := clock.Since(startTime)

		if err != nil {
			return fmt.Errorf("housekeeping failed: %w", err)
		}

		log.InfoContext(ctx, "Scheduled housekeeping task completed successfully", "duration", duration)
		return nil
	}
}
