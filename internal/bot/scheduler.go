package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	slogctx "github.com/veqryn/slog-context"

	"github.com/edgard/botkit/internal/bot/tasks"
	"github.com/edgard/botkit/internal/config"
	"github.com/edgard/botkit/internal/metrics"
)

var errSchedulerStopped = errors.New("scheduler has been stopped")

// Scheduler runs the configured periodic tasks using gocron. Each task fires
// first after its offset and then every period. A run that is still going
// when the next fire is due makes that fire skip.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	cfg       *config.SchedulerConfig
	taskMap   map[string]tasks.ScheduledTaskFunc
	clock     clockwork.Clock

	// ctx is handed to every task run and cancelled by Stop.
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	running bool
	stopped bool
}

// NewScheduler creates a scheduler for the tasks in taskMap configured by cfg.
func NewScheduler(logger *slog.Logger, cfg *config.SchedulerConfig, taskMap map[string]tasks.ScheduledTaskFunc, clock clockwork.Clock) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	s, err := gocron.NewScheduler(gocron.WithClock(clock))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler: s,
		logger:    logger.With("component", "scheduler"),
		cfg:       cfg,
		taskMap:   taskMap,
		clock:     clock,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Start schedules every enabled task and starts ticking.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return errSchedulerStopped
	}
	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	s.logger.Debug("Configuring scheduler jobs...")

	scheduledCount := 0
	if s.cfg != nil {
		for taskName, taskConfig := range s.cfg.Tasks {
			if !taskConfig.Enabled {
				s.logger.Info("Skipping disabled task", "task_name", taskName)
				continue
			}

			taskFunc, exists := s.taskMap[taskName]
			if !exists {
				s.logger.Warn("Scheduled task configured but not found in registry, skipping", "task_name", taskName)
				continue
			}

			if taskConfig.Period <= 0 {
				s.logger.Warn("Scheduled task enabled but has no period, skipping", "task_name", taskName)
				continue
			}

			startAt := gocron.WithStartImmediately()
			if taskConfig.Offset > 0 {
				startAt = gocron.WithStartDateTime(s.clock.Now().Add(taskConfig.Offset))
			}

			_, err := s.scheduler.NewJob(
				gocron.DurationJob(taskConfig.Period),
				gocron.NewTask(s.wrap(taskName, taskFunc)),
				gocron.WithName(taskName),
				gocron.WithStartAt(startAt),
				gocron.WithSingletonMode(gocron.LimitModeReschedule),
			)
			if err != nil {
				s.logger.Error("Failed to schedule task", "task_name", taskName, "error", err)
				continue
			}

			s.logger.Info("Scheduled task", "task_name", taskName, "offset", taskConfig.Offset, "period", taskConfig.Period)
			scheduledCount++
		}
	}

	if scheduledCount == 0 {
		s.logger.Warn("No scheduler tasks configured.")
	}

	s.scheduler.Start()
	s.running = true
	s.logger.Info("Scheduler initialized and started", "tasks_scheduled", scheduledCount)

	return nil
}

// wrap turns a task into a gocron task that never propagates a failure or a
// panic, so one bad run cannot affect the following ones.
func (s *Scheduler) wrap(name string, fn tasks.ScheduledTaskFunc) func() {
	log := s.logger.With("task_name", name)

	return func() {
		ctx := slogctx.NewCtx(s.ctx, log)
		startTime := s.clock.Now()
		result := metrics.ResultSuccess

		defer func() {
			if r := recover(); r != nil {
				result = metrics.ResultPanic
				log.ErrorContext(ctx, "Scheduled task panicked", "panic", r, "stack", string(debug.Stack()))
			}
			duration := s.clock.Since(startTime)
			metrics.SchedulerTicks.WithLabelValues(name, result).Inc()
			metrics.SchedulerTickDuration.WithLabelValues(name).Observe(duration.Seconds())
			log.DebugContext(ctx, "Finished scheduled task", "duration", duration, "result", result)
		}()

		log.DebugContext(ctx, "Running scheduled task")
		if err := fn(ctx); err != nil {
			result = metrics.ResultError
			log.ErrorContext(ctx, "Scheduled task failed", "error", err)
		}
	}
}

// Stop cancels the task context and waits for running tasks to return. Only
// the first call has an effect.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil
	}
	s.stopped = true
	s.cancel()

	if !s.running {
		s.logger.Debug("Scheduler was never started, releasing it.")
	}

	s.logger.Debug("Stopping scheduler gracefully (waiting for jobs)...")
	err := s.scheduler.Shutdown()
	if err != nil {
		s.logger.Error("Error during scheduler shutdown", "error", err)
	} else {
		s.logger.Info("Scheduler stopped gracefully.")
	}

	s.running = false
	return err
}
