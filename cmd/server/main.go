package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pressdeck/overview/internal/config"
	"github.com/pressdeck/overview/internal/domain/content"
	"github.com/pressdeck/overview/internal/domain/overview"
	"github.com/pressdeck/overview/internal/sqlite"
	"github.com/pressdeck/overview/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := migrateIfNeeded(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	prefRepo := sqlite.NewPreferenceRepository(db)
	itemRepo := sqlite.NewItemRepository(db)
	groupRepo := sqlite.NewGroupRepository(db)
	authorRepo := sqlite.NewAuthorRepository(db)

	hooks := overview.NewHooks()
	resolver := overview.NewResolver(prefRepo, hooks, logger)
	aggregator := overview.NewAggregator(itemRepo, groupRepo, hooks, overview.AggregatorConfig{
		ItemCap:          cfg.Board.GroupItemCap,
		Workers:          cfg.Board.QueryWorkers,
		IncludeScheduled: cfg.Board.IncludeScheduled,
	}, logger)

	// The dashboard is trusted once authenticated; row-action policy
	// belongs to the caller, so the server grants everything.
	caps := overview.Capabilities{
		CanEdit:   func(content.Item) bool { return true },
		CanDelete: func(content.Item) bool { return true },
	}
	columns := overview.NewColumnRegistry(authorRepo, caps, adminLinks{}, logger)

	svc := overview.NewService(resolver, aggregator, columns, groupRepo, hooks, cfg.Board.MaxColumns, logger)

	router := transport.NewServer(svc, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

// adminLinks builds dashboard action URLs.
type adminLinks struct{}

func (adminLinks) EditLink(item content.Item) string {
	return "/items/" + url.PathEscape(item.ID) + "/edit"
}

func (adminLinks) TrashLink(item content.Item) string {
	return "/items/" + url.PathEscape(item.ID) + "/trash"
}

func (adminLinks) ViewLink(item content.Item) string {
	return "/items/" + url.PathEscape(item.ID)
}

func (adminLinks) PreviewLink(item content.Item) string {
	return "/items/" + url.PathEscape(item.ID) + "?preview=true"
}

func migrateIfNeeded(db *sqlite.DB) error {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='items'").Scan(&count)
	if err != nil {
		return fmt.Errorf("inspect schema: %w", err)
	}
	if count > 0 {
		return nil
	}
	return db.RunMigrations()
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
