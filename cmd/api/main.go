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

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/scrooge/internal/app"
	"github.com/MrJamesThe3rd/scrooge/internal/config"
	"github.com/MrJamesThe3rd/scrooge/internal/database"
	scroogeHttp "github.com/MrJamesThe3rd/scrooge/internal/http"
	catalogHandler "github.com/MrJamesThe3rd/scrooge/internal/http/catalog"
	exportHandler "github.com/MrJamesThe3rd/scrooge/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/scrooge/internal/http/importcsv"
	ruleHandler "github.com/MrJamesThe3rd/scrooge/internal/http/rule"
	txHandler "github.com/MrJamesThe3rd/scrooge/internal/http/transaction"
	"github.com/MrJamesThe3rd/scrooge/internal/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	applied, err := database.Migrate(ctx, db)
	if err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	logger.Info("database ready", "migrations_applied", applied)

	svc := app.New(db, logger)

	var (
		transactionH = txHandler.NewHandler(svc.Transactions, svc.Tags)
		importH      = importHandler.NewHandler(svc.Import, cfg.Import.Timeout)
		ruleH        = ruleHandler.NewHandler(svc.Rules)
		exportH      = exportHandler.NewHandler(svc.Export)
		catalogH     = catalogHandler.NewHandler(svc.Accounts, svc.Tags)
	)

	router := scroogeHttp.New(scroogeHttp.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		Timeout:        cfg.Server.Timeout,
	}, transactionH, importH, ruleH, exportH, catalogH)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("starting server", "app", cfg.App.Name, "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
