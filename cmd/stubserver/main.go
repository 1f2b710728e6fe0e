package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/docvault-console/internal/api"
	"github.com/docvault-console/internal/config"
	"github.com/docvault-console/internal/models"
	"github.com/docvault-console/internal/repository"
	"github.com/docvault-console/pkg/logger"
)

func main() {
	log := logger.Default()
	log.Info().Msg("Starting docvault stub API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("Server exited gracefully")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// In-memory state, lost on exit
	repos := repository.New(nil)
	if err := seedAdmin(ctx, repos, &cfg.Server, log); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      api.NewRouter(repos, cfg, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Server.Port).
			Bool("enforce_roles", cfg.Server.EnforceRoles).
			Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	return nil
}

// seedAdmin creates the configured admin account so a fresh stub is usable
// without registering through the API first.
func seedAdmin(ctx context.Context, repos *repository.Repositories, cfg *config.ServerConfig, log zerolog.Logger) error {
	if cfg.SeedAdmin == "" || cfg.SeedAdminPassword == "" {
		return nil
	}
	user := &models.User{
		Username: cfg.SeedAdmin,
		FullName: cfg.SeedAdmin,
		Role:     models.RoleAdmin,
	}
	if err := repos.User.Create(ctx, user, cfg.SeedAdminPassword); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	if err := repos.Audit.Append(ctx, user.Username, models.ActionRegister, "seeded"); err != nil {
		return fmt.Errorf("failed to audit seed: %w", err)
	}
	log.Info().Str("username", user.Username).Msg("Seeded admin account")
	return nil
}
