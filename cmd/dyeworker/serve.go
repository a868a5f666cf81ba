package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	goslack "github.com/slack-go/slack"
	"github.com/spf13/cobra"

	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/auth"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/autocomplete"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/commands"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/config"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/db"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/discord"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/dispatch"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/followup"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/logging"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/maintenance"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/notify"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/outcome"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/palette"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/ratelimit"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/server"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/tasks"
)

// shutdownTimeout bounds how long shutdown waits for in-flight background
// work (deferred completions, outcome writes) to settle.
const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Start the interactions worker",
		RunE: func(_ *cobra.Command, _ []string) error {
			return serve()
		},
	}
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	verifier, err := auth.NewVerifier(cfg.DiscordPublicKey)
	if err != nil {
		return err
	}

	store, err := db.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	session, err := discord.NewSession(cfg.DiscordToken)
	if err != nil {
		return err
	}

	redisClient := ratelimit.NewRedisClient(cfg.RedisAddr)
	defer redisClient.Close()
	limiter := ratelimit.New(
		ratelimit.NewRedisStore(redisClient),
		cfg.RateLimitWindow,
		cfg.RateLimitDefault,
		cfg.RateLimitOverrides,
		logging.Component(logger, "ratelimit"),
	)

	tracker := tasks.NewTracker(logging.Component(logger, "tasks"))
	deferrals := followup.NewCoordinator(session, tracker, logging.Component(logger, "followup"))
	recorder := outcome.NewStoreRecorder(store, tracker, logging.Component(logger, "outcome"))
	colors := palette.NewService(store)

	resolver := autocomplete.NewResolver(store, store, store, store, logging.Component(logger, "autocomplete"))

	dispatcher := dispatch.New(dispatch.Config{
		Commands: []dispatch.CommandHandler{
			commands.NewDye(store, colors, deferrals),
			commands.NewMatch(colors, deferrals),
			commands.NewCollection(store),
			commands.NewPreset(),
			commands.NewReport(),
			commands.NewReview(store),
			commands.NewInfo(version),
			commands.NewHelp(),
		},
		Exempt:   []string{"info", "help"},
		Limiter:  limiter,
		Resolver: resolver,
		Buttons:  commands.NewCollectionPager(store),
		Modals:   commands.ModalRoutes(store, logging.Component(logger, "modals")),
		Recorder: recorder,
		Logger:   logging.Component(logger, "dispatch"),
	})

	var slackPoster notify.SlackPoster
	if cfg.SlackToken != "" {
		slackPoster = goslack.New(cfg.SlackToken)
	}
	notifier := notify.NewNotifier(session, slackPoster, cfg.SlackChannelID,
		cfg.ApprovedChannelID, cfg.DeniedChannelID, logging.Component(logger, "notify"))

	secret := auth.NewSecretChecker(cfg.WebhookSecret)
	srv := server.New(verifier, secret, dispatcher, notifier, version, logging.Component(logger, "server"))

	janitor := maintenance.NewRunner(store, cfg.OutcomeRetention, logging.Component(logger, "maintenance"))
	if err := janitor.Start(); err != nil {
		return err
	}

	if err := srv.Start(cfg.ListenAddr); err != nil {
		janitor.Stop()
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("stopping http server", "error", err)
	}
	janitor.Stop()

	// Deferred completions and outcome writes keep running after their
	// responses went out; give them a chance to settle before exit.
	if !tracker.Wait(shutdownTimeout) {
		logger.Warn("background tasks did not settle before timeout")
	}

	logger.Info("shutdown complete")
	return nil
}
