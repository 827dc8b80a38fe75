package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/zscale/internal/cli"
	"github.com/alexanderramin/zscale/internal/db"
	"github.com/alexanderramin/zscale/internal/repository"
	"github.com/alexanderramin/zscale/internal/service"
	"github.com/alexanderramin/zscale/internal/zapi"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := zapi.LoadConfig()
	if err != nil {
		return err
	}

	// Determine DB path: config/env or default ~/.zscale/cache.db
	dbPath := cfg.DBPath
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".zscale", "cache.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	var observer zapi.Observer = zapi.NoopObserver{}
	var useCases service.UseCaseObserver = service.NoopUseCaseObserver{}
	if cfg.LogCalls {
		observer = zapi.NewLogObserver(os.Stderr)
		useCases = service.NewLogUseCaseObserver(os.Stderr)
	}
	client := zapi.NewClient(cfg, observer)

	caseRepo := repository.NewSQLiteTestCaseRepo(database)
	cycleRepo := repository.NewSQLiteTestCycleRepo(database)
	execRepo := repository.NewSQLiteTestExecutionRepo(database)
	runRepo := repository.NewSQLiteSyncRunRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	app := &cli.App{
		Cases:      service.NewTestCaseService(client, caseRepo, useCases),
		Cycles:     service.NewTestCycleService(client, cycleRepo, useCases),
		Executions: service.NewTestExecutionService(client, execRepo, useCases),
		Sync:       service.NewSyncService(client, uow, runRepo, service.DefaultSyncConcurrency, useCases),
		Ping:       client.Ping,
		ConfigErr:  cfg.Validate(),
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
