package tasks

import (
	"context"
	"fmt"

	slogctx "github.com/veqryn/slog-context"

	"github.com/edgard/botkit/internal/activity"
	"github.com/edgard/botkit/internal/database"
)

// newStatusRotationTask publishes a random stored status, or the default
// presence when none is stored. It does nothing while rotation is disabled.
func newStatusRotationTask(deps TaskDeps) ScheduledTaskFunc {
	return func(ctx context.Context) error {
		log := slogctx.FromCtx(ctx)

		if !deps.State.IsRotationEnabled() {
			log.DebugContext(ctx, "Status rotation disabled, skipping")
			return nil
		}

		presence := activity.Presence{Kind: database.ActivityCustom, Text: deps.DefaultPresence}
		status, ok, err := deps.State.RandomStatus(ctx)
		if err != nil {
			return fmt.Errorf("failed to pick random status: %w", err)
		}
		if ok {
			presence = activity.PresenceOf(status)
		}

		if err := deps.Presence.SetPresence(ctx, presence); err != nil {
			return fmt.Errorf("failed to update presence: %w", err)
		}

		log.InfoContext(ctx, "Presence updated", "activity", presence.Kind.String(), "text", presence.Text, "stored", ok)
		return nil
	}
}
