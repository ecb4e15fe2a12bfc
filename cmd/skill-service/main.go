// Package main is the entry point for the skill service. It loads
// configuration, connects to PostgreSQL and Valkey, wires the taxonomy
// service, tree cache and search matcher, and starts the HTTP server with
// graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HBTGmbH/pwr-skill-service/internal/cache"
	"github.com/HBTGmbH/pwr-skill-service/internal/config"
	"github.com/HBTGmbH/pwr-skill-service/internal/database"
	"github.com/HBTGmbH/pwr-skill-service/internal/handlers"
	"github.com/HBTGmbH/pwr-skill-service/internal/router"
	"github.com/HBTGmbH/pwr-skill-service/internal/search"
	"github.com/HBTGmbH/pwr-skill-service/internal/store"
	"github.com/HBTGmbH/pwr-skill-service/internal/taxonomy"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// The fallback category is a hard requirement of categorization; seed
	// it on every start.
	if err := database.Seed(db); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	// Valkey caches the materialized tree snapshot. The service runs
	// without it; the snapshot is then rebuilt per request.
	var treeCache *cache.TreeCache
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable — tree snapshot caching disabled", "error", err)
	} else {
		defer valkeyClient.Close()
		treeCache = cache.NewTreeCache(valkeyClient, cache.DefaultTreeTTL)
	}

	categoryStore := store.NewCategoryStore(db)
	skillStore := store.NewSkillStore(db)
	svc := taxonomy.New(categoryStore, skillStore)

	matcher := search.NewMatcher(skillStore)
	matcher.RebuildAsync(context.Background())

	categoryHandlers := handlers.NewCategories(svc, treeCache)
	skillHandlers := handlers.NewSkills(svc, matcher, treeCache)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.New(categoryHandlers, skillHandlers),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run the server in a goroutine so shutdown signals can be handled.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}
