package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sqliteadapter "github.com/ericfisherdev/contacts/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/contacts/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/contacts/internal/adapter/driving/web"
	"github.com/ericfisherdev/contacts/internal/application"
	"github.com/ericfisherdev/contacts/internal/auth"
	"github.com/ericfisherdev/contacts/internal/config"
	"github.com/ericfisherdev/contacts/internal/domain/model"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on a missing signing secret).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"auth_mode", cfg.AuthMode,
		"strict_db_init", cfg.StrictDBInit,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Connection factory and executor. Every call opens and closes its
	// own handle; the first call on a missing file creates and seeds it.
	var factoryOpts []sqliteadapter.FactoryOption
	if cfg.StrictDBInit {
		factoryOpts = append(factoryOpts, sqliteadapter.WithStrictInit())
	}
	factory := sqliteadapter.NewFactory(cfg.DBPath, slog.Default(), factoryOpts...)
	exec := sqliteadapter.NewExecutor(factory, slog.Default())

	// 4. Startup check.
	healthSvc := application.NewHealthService(exec)
	if err := healthSvc.Check(ctx); err != nil {
		return fmt.Errorf("database check: %w", err)
	}
	slog.Info("database ready", "path", factory.Path())

	// 5. Auth strategy selected by configuration.
	strategy, err := newStrategy(cfg)
	if err != nil {
		return err
	}
	authSvc := application.NewAuthService(
		model.Principal{Username: cfg.Username, Password: cfg.Password},
		strategy,
	)
	gate := auth.RequireAuth(strategy, cfg.LoginPath, slog.Default())

	// 6. Wire adapters.
	userStore := sqliteadapter.NewUserRepo(exec)
	postStore := sqliteadapter.NewPostRepo(exec)

	// 7. Register API routes.
	apiHandler := httphandler.NewHandler(userStore, postStore, healthSvc, slog.Default())
	mux := http.NewServeMux()
	httphandler.RegisterRoutes(mux, apiHandler, gate)

	// 8. Register GUI routes.
	webHandler := webhandler.NewHandler(userStore, postStore, authSvc, webhandler.Settings{
		CookieSecure:       cfg.CookieSecure,
		LoginPath:          cfg.LoginPath,
		LoginFailureStatus: cfg.LoginFailureStatus,
	}, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler, gate)

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	slog.Info("contacts started", "listen_addr", cfg.ListenAddr, "auth_mode", cfg.AuthMode)

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 10. Graceful shutdown with 10s timeout for in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// newStrategy builds the auth strategy named by cfg.AuthMode.
func newStrategy(cfg *config.Config) (auth.Strategy, error) {
	switch cfg.AuthMode {
	case config.AuthModeUsername:
		return auth.NewUsernameStrategy(cfg.Username), nil
	default:
		tokens, err := auth.NewTokenService([]byte(cfg.JWTSecret))
		if err != nil {
			return nil, err
		}
		return auth.NewTokenStrategy(tokens), nil
	}
}
