package main

import (
	"context"
	"errors"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/edgard/botkit/internal/activity"
	"github.com/edgard/botkit/internal/bot"
	"github.com/edgard/botkit/internal/bot/handlers"
	"github.com/edgard/botkit/internal/bot/tasks"
	"github.com/edgard/botkit/internal/config"
	"github.com/edgard/botkit/internal/database"
	"github.com/edgard/botkit/internal/interactive"
	"github.com/edgard/botkit/internal/logger"
	"github.com/edgard/botkit/internal/metrics"
	"github.com/edgard/botkit/internal/session"
	"github.com/edgard/botkit/internal/telegram"
)

// runBot initializes every component, runs the bot until ctx is cancelled,
// and returns the first fatal error.
func runBot(ctx context.Context, configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", configPath, "error", err)
		return err
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database)
	if err != nil {
		log.Error("Failed to connect to database", "provider", cfg.Database.Provider, "error", err)
		return err
	}
	defer database.CloseDB(db)

	privileged := database.NewPrivilegedUserRepository(db, log)
	statuses := database.NewBotStatusRepository(db, log, cfg.Bot.StatusMaxLength)
	ignored := database.NewIgnoredUserRepository(db, log)

	clock := clockwork.NewRealClock()
	state := activity.NewState(clock, statuses, cfg.Bot.Listening, cfg.Bot.StatusRotation)
	guard := session.NewGuard()
	if err := metrics.RegisterPendingSessions(prometheus.DefaultRegisterer, guard.PendingChannels); err != nil {
		log.Warn("Failed to register session metrics", "error", err)
	}

	hDeps := handlers.HandlerDeps{
		Logger:          log,
		Config:          cfg,
		State:           state,
		Guard:           guard,
		Prompter:        interactive.NewPrompter(guard, clock, cfg.Bot.PromptTimeout, log),
		PrivilegedUsers: privileged,
		IgnoredUsers:    ignored,
		BotStatuses:     statuses,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(telegram.UpdateLogger(log), handlers.IgnoredUsersFilter(hDeps)),
		tgbot.WithDefaultHandler(handlers.NewReplyHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return err
	}

	if err := telegram.Connect(ctx, tg, state, log); err != nil {
		log.Error("Failed to connect to Telegram", "error", err)
		return err
	}

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return err
	}

	tDeps := tasks.TaskDeps{
		Logger:          log,
		State:           state,
		Presence:        telegram.NewPresence(tg),
		Maintainer:      database.NewMaintainer(db, cfg.Database.Provider, log),
		DefaultPresence: cfg.Telegram.DefaultPresence,
		Clock:           clock,
	}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps), clock)
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return err
	}

	app := bot.NewBot(log, cfg, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...", "uptime", state.Uptime())

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		return runErr
	}

	log.Info("Bot stopped gracefully.")
	return nil
}
