package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Lelo88/items-api-golang/internal/config"
	"github.com/Lelo88/items-api-golang/internal/db"
	"github.com/Lelo88/items-api-golang/internal/db/migrations"
	"github.com/Lelo88/items-api-golang/internal/health"
	"github.com/Lelo88/items-api-golang/internal/items"
	"github.com/Lelo88/items-api-golang/internal/logger"
	"github.com/Lelo88/items-api-golang/internal/metrics"
)

var (
	loadConfigFn  = config.Load
	openStorageFn = openStorage
	serveFn       = serve
	fatalf        = func(args ...any) {
		fmt.Fprintln(os.Stderr, args...)
		os.Exit(1)
	}
)

// storage agrupa lo que la app necesita de la base, sea Postgres o MySQL.
type storage struct {
	store  items.Store
	pinger health.Pinger
	close  func()
}

type appDeps struct {
	loadConfig  func() (config.Config, error)
	openStorage func(ctx context.Context, cfg config.Config, log zerolog.Logger) (*storage, error)
	serve       func(ctx context.Context, server *http.Server, shutdownTimeout time.Duration) error
	logOutput   io.Writer
}

func main() {
	// Contexto raíz del proceso: se cancela con SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, appDeps{
		loadConfig:  loadConfigFn,
		openStorage: openStorageFn,
		serve:       serveFn,
		logOutput:   os.Stdout,
	})
	if err != nil {
		fatalf(err)
	}
}

func run(ctx context.Context, deps appDeps) error {
	cfg, err := deps.loadConfig()
	if err != nil {
		return err
	}

	log := logger.NewWithWriter(deps.logOutput, cfg.LogLevel, cfg.LogFormat)

	st, err := deps.openStorage(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer st.close()

	router := buildRouter(routerDeps{
		store:          st.store,
		pinger:         st.pinger,
		logger:         log,
		metrics:        metrics.New(),
		corsOrigins:    cfg.CORSAllowedOrigins,
		requestTimeout: cfg.RequestTimeout,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info().
		Str("addr", server.Addr).
		Str("driver", cfg.DatabaseDriver).
		Msg("listening")

	if err := deps.serve(ctx, server, cfg.ShutdownTimeout); err != nil {
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}

// openStorage conecta al driver configurado, migra si corresponde y arma el Store.
func openStorage(ctx context.Context, cfg config.Config, log zerolog.Logger) (*storage, error) {
	switch cfg.DatabaseDriver {
	case config.DriverMySQL:
		database, err := db.NewMySQL(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := migrations.Up(ctx, database, config.DriverMySQL, log); err != nil {
				_ = database.Close()
				return nil, err
			}
		}
		return &storage{
			store:  items.NewMySQLRepository(database),
			pinger: db.SQLPinger{DB: database},
			close:  func() { _ = database.Close() },
		}, nil

	default:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			sqlDB := db.SQLFromPool(pool)
			err := migrations.Up(ctx, sqlDB, config.DriverPostgres, log)
			_ = sqlDB.Close()
			if err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &storage{
			store:  items.NewRepository(pool),
			pinger: pool,
			close:  pool.Close,
		}, nil
	}
}

// serve levanta el servidor y, cuando ctx se cancela, hace un shutdown ordenado
// esperando hasta shutdownTimeout a que terminen los requests en curso.
func serve(ctx context.Context, server *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
