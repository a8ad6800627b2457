package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/wardenbot/warden/internal/album"
	"github.com/wardenbot/warden/internal/catalog"
	"github.com/wardenbot/warden/internal/config"
	"github.com/wardenbot/warden/internal/dispatcher"
	"github.com/wardenbot/warden/internal/moderation"
	"github.com/wardenbot/warden/internal/registry"
	"github.com/wardenbot/warden/internal/scheduler"
	"github.com/wardenbot/warden/internal/telegram"
	"github.com/wardenbot/warden/internal/web"
)

func main() {
	catalogPath := flag.String("catalog", "messages.yaml", "path to the message catalog")
	imageDir := flag.String("img", "img", "directory with broadcast images")
	webOnly := flag.Bool("web-only", false, "serve only the health endpoints, no bot")
	flag.Parse()

	// Hosted deployments set real env vars; a missing .env is fine.
	if err := godotenv.Load(); err != nil {
		fmt.Println("no .env file, using process environment")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	setupLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		slog.Info("shutdown signal received", "signal", sig.String())
		cancel()
	}()

	server := web.NewServer(slog.Default())

	if *webOnly {
		slog.Info("running in web-only mode")
		if err := server.ListenAndServe(ctx, ":"+cfg.Port); err != nil {
			slog.Error("http server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := cfg.ValidateBot(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("invalid timezone", "error", err)
		os.Exit(1)
	}

	store, err := catalog.NewStore(*catalogPath)
	if err != nil {
		slog.Error("failed to load message catalog", "path", *catalogPath, "error", err)
		os.Exit(1)
	}

	reg, err := registry.New()
	if err != nil {
		slog.Error("failed to build command registry", "error", err)
		os.Exit(1)
	}

	bot, err := telegram.New(cfg.Token, slog.Default())
	if err != nil {
		slog.Error("failed to create telegram bot", "error", err)
		os.Exit(1)
	}

	guard := moderation.NewGuard(bot.Raw, slog.Default())
	engine := moderation.NewEngine(bot.Raw, guard, loc, slog.Default())
	albums := album.New(bot.Raw, slog.Default())
	sched := scheduler.New(bot.Raw, store, cfg.ChatID, loc, *imageDir, slog.Default())

	disp := dispatcher.New(bot.Raw, bot.Username(), reg, store, engine, guard, albums, sched, slog.Default())

	// The health surface runs regardless of bot state so the platform
	// keeps the instance alive.
	go func() {
		if err := server.ListenAndServe(ctx, ":"+cfg.Port); err != nil {
			slog.Error("http server failed", "error", err)
			cancel()
		}
	}()

	sched.Run(ctx)
	server.SetStatus(true, bot.Raw.Id)

	slog.Info("warden started",
		"username", bot.Username(),
		"chat_id", cfg.ChatID,
		"timezone", cfg.Timezone,
	)

	if err := bot.Start(ctx, disp.Build()); err != nil {
		slog.Error("telegram bot error", "error", err)
		os.Exit(1)
	}
	server.SetStatus(false, 0)
	slog.Info("warden stopped")
}

// setupLogger configures slog from the config: debug level switch and an
// optional log file mirrored alongside stdout.
func setupLogger(cfg *config.Config) {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stdout
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		w = io.MultiWriter(os.Stdout, f)
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
