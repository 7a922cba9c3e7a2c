package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/config"
	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/database"
	"github.com/davidleathers/phonenumbers-na/internal/infrastructure/telemetry"
)

// migrator is the subset of database.Migrator the actions need.
type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (uint, bool, error)
	Close() error
}

var newMigrator = func(dsn string, logger *zap.Logger) (migrator, error) {
	return database.NewMigrator(dsn, logger)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "Path to configuration file")
		action     = fs.String("action", "up", "Migration action: up, down, version, steps")
		steps      = fs.Int("steps", 0, "Migrations to apply for the steps action; negative rolls back")
		dsn        = fs.String("database-url", "", "Override the configured database URL")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	switch *action {
	case "up", "down", "version":
	case "steps":
		if *steps == 0 {
			fmt.Fprintln(stderr, "steps action requires a non-zero -steps")
			return 2
		}
	default:
		fmt.Fprintf(stderr, "unknown action %q\n", *action)
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}
	if *dsn != "" {
		cfg.Database.URL = *dsn
	}
	if !cfg.Database.Enabled() {
		fmt.Fprintln(stderr, "database url is not configured")
		return 1
	}

	logger, err := telemetry.NewZapLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		fmt.Fprintf(stderr, "failed to setup logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	m, err := newMigrator(cfg.Database.URL, logger)
	if err != nil {
		logger.Error("failed to prepare migrations", zap.Error(err))
		return 1
	}
	defer func() {
		if err := m.Close(); err != nil {
			logger.Warn("failed to close migrator", zap.Error(err))
		}
	}()

	switch *action {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		err = m.Steps(*steps)
	case "version":
		var (
			v     uint
			dirty bool
		)
		v, dirty, err = m.Version()
		if err == nil {
			fmt.Fprintf(stdout, "version %d dirty=%t\n", v, dirty)
		}
	}
	if err != nil {
		logger.Error("migration failed", zap.String("action", *action), zap.Error(err))
		return 1
	}
	return 0
}
