// Package migrations ejecuta las migraciones SQL embebidas con goose.
// Hay un directorio por dialecto porque el DDL de Postgres y MySQL difiere.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed postgres/*.sql mysql/*.sql
var files embed.FS

// goose configura dialecto, FS y logger de forma global; serializamos el acceso.
var gooseMu sync.Mutex

// Dialect devuelve el dialecto de goose para el driver configurado.
func Dialect(driver string) (string, error) {
	switch driver {
	case "postgres", "mysql":
		return driver, nil
	default:
		return "", fmt.Errorf("unsupported migration dialect %q", driver)
	}
}

// Files devuelve las migraciones del dialecto (útil para listar o testear).
func Files(dialect string) (fs.FS, error) {
	if _, err := Dialect(dialect); err != nil {
		return nil, err
	}
	sub, err := fs.Sub(files, dialect)
	if err != nil {
		return nil, errors.Wrap(err, "open embedded migrations")
	}
	return sub, nil
}

// Up aplica todas las migraciones pendientes.
func Up(ctx context.Context, database *sql.DB, dialect string, log zerolog.Logger) error {
	return run(dialect, log, func() error {
		return goose.UpContext(ctx, database, ".")
	})
}

// Down revierte la última migración aplicada.
func Down(ctx context.Context, database *sql.DB, dialect string, log zerolog.Logger) error {
	return run(dialect, log, func() error {
		return goose.DownContext(ctx, database, ".")
	})
}

// Status loguea el estado de cada migración.
func Status(ctx context.Context, database *sql.DB, dialect string, log zerolog.Logger) error {
	return run(dialect, log, func() error {
		return goose.StatusContext(ctx, database, ".")
	})
}

func run(dialect string, log zerolog.Logger, fn func() error) error {
	sub, err := Files(dialect)
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(sub)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(gooseLogger{log: log.With().Str("component", "migrations").Logger()})

	if err := goose.SetDialect(dialect); err != nil {
		return errors.Wrap(err, "set goose dialect")
	}
	if err := fn(); err != nil {
		return errors.Wrap(err, "run migrations")
	}
	return nil
}

// gooseLogger adapta zerolog a la interfaz goose.Logger.
type gooseLogger struct {
	log zerolog.Logger
}

func (logger gooseLogger) Printf(format string, v ...any) {
	logger.log.Info().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf loguea como error sin terminar el proceso.
func (logger gooseLogger) Fatalf(format string, v ...any) {
	logger.log.Error().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
