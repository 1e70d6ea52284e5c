package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/evanmarch/tempo/internal/cli"
	"github.com/evanmarch/tempo/internal/config"
	"github.com/evanmarch/tempo/internal/db"
	"github.com/evanmarch/tempo/internal/repository"
	"github.com/evanmarch/tempo/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Use-case logs go to a file, not the terminal the TUI draws on.
	observer, closeLog := buildObserver(cfg.Database.Path)
	defer closeLog()

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	milestoneRepo := repository.NewSQLiteMilestoneRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	habitRepo := repository.NewSQLiteHabitRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// The change feed is the subscription surface every view re-derives
	// from after a mutation.
	feed := service.NewChangeFeed()
	defer feed.Close()

	app := &cli.App{
		Projects:   service.NewProjectService(projectRepo, feed),
		Milestones: service.NewMilestoneService(milestoneRepo, uow, feed),
		Tasks:      service.NewTaskService(taskRepo, feed),
		Habits:     service.NewHabitService(habitRepo, uow, feed, observer),
		Schedule: service.NewScheduleService(
			taskRepo, habitRepo, projectRepo, milestoneRepo,
			cfg.ScheduleConfig(), feed, observer),
		Import: service.NewImportService(uow, feed, observer),
		Feed:   feed,
		Config: cfg,
	}

	// Detect interactive terminal for the TUI entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}

// buildObserver opens the use-case log next to the database. Logging is
// best effort; a failure to open the file just disables it.
func buildObserver(dbPath string) (service.UseCaseObserver, func()) {
	logPath := filepath.Join(filepath.Dir(dbPath), "tempo.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return service.NoopUseCaseObserver{}, func() {}
	}
	logger := slog.New(slog.NewTextHandler(f, nil))
	slog.SetDefault(logger)
	return service.NewSlogUseCaseObserver(logger), func() { _ = f.Close() }
}
