package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
)

// connectTimeout acota el arranque si la DB no responde.
const connectTimeout = 5 * time.Second

type poolPinger interface {
	Ping(ctx context.Context) error
	Close()
}

var (
	newPool  = pgxpool.NewWithConfig
	pingPool = func(ctx context.Context, pool poolPinger) error {
		return pool.Ping(ctx)
	}
	closePool = func(pool poolPinger) {
		pool.Close()
	}

	openMySQL = func(cfg *mysql.Config) (*sql.DB, error) {
		connector, err := mysql.NewConnector(cfg)
		if err != nil {
			return nil, err
		}
		return sql.OpenDB(connector), nil
	}
	pingSQL = func(ctx context.Context, database *sql.DB) error {
		return database.PingContext(ctx)
	}
)

// NewPool crea un pool de conexiones a PostgreSQL.
// Se usa un timeout corto para evitar que el arranque quede colgado si la DB no responde.
func NewPool(ctx context.Context, databaseURL string, maxConns int) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse postgres url")
	}
	if maxConns > 0 {
		poolConfig.MaxConns = int32(maxConns)
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := newPool(ctx, poolConfig)
	if err != nil {
		return nil, errors.Wrap(err, "create postgres pool")
	}

	// Validación temprana: asegura que la app no arranca "a medias".
	if err := pingPool(ctx, pool); err != nil {
		closePool(pool)
		return nil, errors.Wrap(err, "ping postgres")
	}

	return pool, nil
}

// MySQLConfig parsea el DSN y fuerza lo que el repositorio necesita:
// parseTime para escanear DATETIME/TIMESTAMP a time.Time y clientFoundRows
// para que UPDATE cuente filas encontradas (igual que Postgres).
func MySQLConfig(dsn string) (*mysql.Config, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "parse mysql dsn")
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	if cfg.Loc == nil {
		cfg.Loc = time.UTC
	}
	return cfg, nil
}

// NewMySQL abre un *sql.DB contra MySQL y valida la conexión con un ping.
func NewMySQL(ctx context.Context, dsn string, maxConns int) (*sql.DB, error) {
	cfg, err := MySQLConfig(dsn)
	if err != nil {
		return nil, err
	}

	database, err := openMySQL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "open mysql")
	}
	if maxConns > 0 {
		database.SetMaxOpenConns(maxConns)
		database.SetMaxIdleConns(maxConns)
	}
	database.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := pingSQL(ctx, database); err != nil {
		_ = database.Close()
		return nil, errors.Wrap(err, "ping mysql")
	}

	return database, nil
}

// SQLFromPool expone el pool de pgx como *sql.DB (lo usa goose para migrar).
// Cerrar el *sql.DB devuelto no cierra el pool.
func SQLFromPool(pool *pgxpool.Pool) *sql.DB {
	return stdlib.OpenDBFromPool(pool)
}

// OpenSQL abre un *sql.DB para el driver configurado (postgres usa el driver "pgx").
func OpenSQL(ctx context.Context, driver, databaseURL string) (*sql.DB, error) {
	switch driver {
	case "postgres":
		database, err := sql.Open("pgx", databaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "open postgres")
		}
		ctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		if err := pingSQL(ctx, database); err != nil {
			_ = database.Close()
			return nil, errors.Wrap(err, "ping postgres")
		}
		return database, nil
	case "mysql":
		return NewMySQL(ctx, databaseURL, 1)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// SQLPinger adapta *sql.DB a la interfaz Ping(ctx) que usa /ready.
type SQLPinger struct {
	DB *sql.DB
}

func (pinger SQLPinger) Ping(ctx context.Context) error {
	return pinger.DB.PingContext(ctx)
}
