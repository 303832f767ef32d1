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

	"github.com/joho/godotenv"

	"github.com/seeker-rps/api/internal/api"
	"github.com/seeker-rps/api/internal/escrow"
	"github.com/seeker-rps/api/internal/infra/logging"
	"github.com/seeker-rps/api/internal/infra/pgutils"
	gamesrepo "github.com/seeker-rps/api/internal/repos/games/postgres"
	"github.com/seeker-rps/api/internal/services/game"
	"github.com/seeker-rps/api/pkg/envconf"
	"github.com/seeker-rps/api/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel, "seeker-rps-api")

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	dbConns, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add(func(context.Context) error {
		slog.Info("Close db pool")

		return dbConns.Close()
	})

	ledger, err := escrow.NewClient(cfg.Solana)
	if err != nil {
		return fmt.Errorf("init escrow client: %w", err)
	}

	gameSrv := game.New(gamesrepo.New(dbConns), ledger, game.Config{
		MinStakeLamports: cfg.Game.MinStakeLamports,
		PinMaxAttempts:   cfg.Game.PinMaxAttempts,
	})

	// --- HTTP server ---
	srv := api.NewServer(cfg.Port, gameSrv)

	shutdownqueue.Add(func(c context.Context) error {
		slog.Info("Shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "port", cfg.Port, "resolve_enabled", ledger.CanResolve())

	select {
	case <-ctx.Done():
		// graceful path; deferred shutdownqueue.Shutdown will run
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}
