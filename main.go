package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/todo-api/internal/config"
	"github.com/msomdec/todo-api/internal/domain"
	"github.com/msomdec/todo-api/internal/handler"
	"github.com/msomdec/todo-api/internal/repository/mongodb"
	"github.com/msomdec/todo-api/internal/repository/sqlite"
	"github.com/msomdec/todo-api/internal/service"
	"github.com/spf13/pflag"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}

	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg != nil {
		logOpts.Level = cfg.LogLevel
	}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := openStore(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(store.Users(), tokenService, cfg.BcryptCost)
	taskService := service.NewTaskService(store.Tasks())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, tokenService, taskService, store.Ping)

	h := handler.WithJSONFallbacks(mux)
	h = handler.SecurityHeaders(h)
	h = handler.CORS(cfg.FrontendURL, h)
	h = handler.LogRequests(h)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStore picks the backend named by the database URI.
func openStore(ctx context.Context, cfg *config.Config) (domain.Store, error) {
	if cfg.UsesMongo() {
		db, err := mongodb.New(ctx, cfg.DatabaseURI)
		if err != nil {
			return nil, err
		}
		slog.Info("using mongodb store")
		return db, nil
	}

	db, err := sqlite.New(cfg.DatabaseURI)
	if err != nil {
		return nil, err
	}
	slog.Info("using sqlite store", "path", cfg.DatabaseURI)
	return db, nil
}
