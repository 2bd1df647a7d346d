// Command migrate aplica o revierte las migraciones de la tabla items
// sin levantar el servidor: migrate [up|down|status].
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/Lelo88/items-api-golang/internal/config"
	"github.com/Lelo88/items-api-golang/internal/db"
	"github.com/Lelo88/items-api-golang/internal/db/migrations"
	"github.com/Lelo88/items-api-golang/internal/logger"
)

type migrateFunc func(ctx context.Context, database *sql.DB, dialect string, log zerolog.Logger) error

var commands = map[string]migrateFunc{
	"up":     migrations.Up,
	"down":   migrations.Down,
	"status": migrations.Status,
}

var (
	loadConfigFn = config.Load
	openSQLFn    = db.OpenSQL
	fatalf       = func(args ...any) {
		fmt.Fprintln(os.Stderr, args...)
		os.Exit(1)
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fatalf(err)
	}
}

func run(ctx context.Context, args []string, logOutput io.Writer) error {
	name := "up"
	if len(args) > 0 {
		name = args[0]
	}
	command, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q (use up, down or status)", name)
	}

	cfg, err := loadConfigFn()
	if err != nil {
		return err
	}
	log := logger.NewWithWriter(logOutput, cfg.LogLevel, cfg.LogFormat)

	dialect, err := migrations.Dialect(cfg.DatabaseDriver)
	if err != nil {
		return err
	}

	database, err := openSQLFn(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	if err := command(ctx, database, dialect, log); err != nil {
		return fmt.Errorf("migrate %s: %w", name, err)
	}

	log.Info().Str("command", name).Str("dialect", dialect).Msg("migrations done")
	return nil
}
