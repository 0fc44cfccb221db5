package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mindhacker/edge/internal/analytics"
	"github.com/mindhacker/edge/internal/api"
	"github.com/mindhacker/edge/internal/bridge"
	"github.com/mindhacker/edge/internal/curriculum"
	"github.com/mindhacker/edge/internal/handler"
	"github.com/mindhacker/edge/internal/platform/cache"
	"github.com/mindhacker/edge/internal/platform/config"
	"github.com/mindhacker/edge/internal/platform/database"
	"github.com/mindhacker/edge/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Redis-backed sessions when a cache URL is configured, in-memory
	// otherwise. Memory mode is fine for single-instance deployments and
	// local development.
	var store session.Store = session.NewMemoryStore()
	if cfg.Cache.URL != "" {
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			slog.Error("failed to connect to cache", "error", err)
			os.Exit(1)
		}
		defer c.Close()
		store = session.NewRedisStore(c.Client, cfg.Session.TTL)
		slog.Info("using redis session store", "ttl", cfg.Session.TTL)
	}

	// Analytics events go to Postgres when configured, otherwise nowhere.
	var events analytics.Logger = analytics.NopLogger{}
	if cfg.Database.URL != "" {
		db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		events = analytics.NewPostgresLogger(db.Pool)
		slog.Info("analytics event logging enabled")
	}

	samples, err := curriculum.LoadSamples(cfg.Samples.Path)
	if err != nil {
		slog.Warn("sample curricula unavailable", "path", cfg.Samples.Path, "error", err)
		samples = curriculum.NewSampleSet()
	}

	client := api.New(cfg.Backend.APIURL,
		api.WithChatURL(cfg.Backend.ChatURL),
		api.WithTimeout(cfg.Backend.RequestTimeout),
	)

	router := handler.New(handler.Deps{
		Store:        store,
		Client:       client,
		Bridge:       bridge.New(store, client, nil),
		Samples:      samples,
		Events:       events,
		ProxyUploads: cfg.Backend.ProxyUploads,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		// Writes stay open for the duration of a proxied chat turn.
		WriteTimeout: cfg.Backend.RequestTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "backend", cfg.Backend.APIURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}
