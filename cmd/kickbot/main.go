package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/omarshaarawi/kickbot/internal/api/fantasy"
	"github.com/omarshaarawi/kickbot/internal/api/kickbase"
	"github.com/omarshaarawi/kickbot/internal/api/ligainsider"
	"github.com/omarshaarawi/kickbot/internal/availability"
	"github.com/omarshaarawi/kickbot/internal/bot"
	"github.com/omarshaarawi/kickbot/internal/config"
	"github.com/omarshaarawi/kickbot/internal/repository/memory"
	"github.com/omarshaarawi/kickbot/internal/scheduler"
	"github.com/omarshaarawi/kickbot/internal/service"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Error("Error loading .env file", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}
	setupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kickbaseClient := kickbase.NewClient(cfg.Kickbase)
	kickbaseAPI := kickbase.NewAPI(kickbaseClient)
	fantasyAPI := fantasy.NewAPI(kickbaseAPI)

	store, closeStore, err := newAvailabilityStore(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer closeStore()

	clock := clockwork.NewRealClock()
	cache := availability.NewCache(store, clock, cfg.Ligainsider.CacheTTL)
	resolver := availability.NewResolver(
		ligainsider.NewClient(cfg.Ligainsider),
		cache,
		clock,
		availability.WithMaxConcurrent(cfg.Ligainsider.MaxConcurrent),
	)

	repo := memory.NewRepository()
	lineupService := service.NewLineupService(fantasyAPI, fantasyAPI, resolver, repo, clock, cfg.Kickbase.RosterTTL)

	telegramBot, err := bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, lineupService)
	if err != nil {
		return err
	}

	sched, err := scheduler.NewScheduler(cfg.Scheduler, lineupService, cache, telegramBot.SendMessage)
	if err != nil {
		return err
	}

	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer func() {
		err := sched.Stop()
		if err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	http.HandleFunc("/", healthCheckHandler)

	go func() {
		if err := http.ListenAndServe(cfg.HTTPAddr, nil); err != nil {
			slog.Error("Error starting HTTP server", "error", err)
		}
	}()

	go func() {
		if err := telegramBot.Start(ctx); err != nil {
			slog.Error("Error running telegram bot", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	return nil
}

func setupLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		slog.Warn("Unknown log level, using info", "level", level)
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}

// newAvailabilityStore uses redis when configured so availability survives
// restarts, and memory otherwise.
func newAvailabilityStore(ctx context.Context, cfg config.Redis) (availability.Store, func(), error) {
	if cfg.URL == "" {
		slog.Info("Using in-memory availability cache")
		return availability.NewMemoryStore(), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connecting to redis: %w", err)
	}

	slog.Info("Using redis availability cache", "addr", opts.Addr)
	return availability.NewRedisStore(client), func() {
		if err := client.Close(); err != nil {
			slog.Error("Error closing redis client", "error", err)
		}
	}, nil
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
