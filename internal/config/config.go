package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Drivers de base de datos soportados.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Config agrupa la configuración necesaria para correr la aplicación.
// Los tags koanf mapean variables de entorno (en minúsculas) a campos.
type Config struct {
	Port               string        `koanf:"port" validate:"required,numeric"`
	DatabaseDriver     string        `koanf:"database_driver" validate:"oneof=postgres mysql"`
	DatabaseURL        string        `koanf:"database_url" validate:"required"`
	DatabaseMaxConns   int           `koanf:"database_max_conns" validate:"gte=1"`
	AutoMigrate        bool          `koanf:"auto_migrate"`
	LogLevel           string        `koanf:"log_level"`
	LogFormat          string        `koanf:"log_format" validate:"oneof=json console"`
	CORSAllowedOrigins string        `koanf:"cors_allowed_origins"`
	RequestTimeout     time.Duration `koanf:"request_timeout" validate:"gt=0"`
	ShutdownTimeout    time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

var validate = validator.New()

// ErrMissingDatabaseURL indica que DATABASE_URL no está definida.
var ErrMissingDatabaseURL = errors.New("missing required env var: DATABASE_URL")

func defaults() Config {
	return Config{
		Port:               "5000",
		DatabaseDriver:     DriverPostgres,
		DatabaseMaxConns:   10,
		AutoMigrate:        true,
		LogLevel:           "info",
		LogFormat:          "json",
		CORSAllowedOrigins: "*",
		RequestTimeout:     10 * time.Second,
		ShutdownTimeout:    15 * time.Second,
	}
}

// Load lee variables de entorno (y un .env opcional) y valida lo mínimo indispensable.
func Load() (Config, error) {
	// Si no hay .env seguimos con el entorno del proceso.
	_ = godotenv.Load()

	k := koanf.New(".")
	provider := env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		// Variables vacías cuentan como no definidas: así aplican los defaults.
		if strings.TrimSpace(value) == "" {
			return "", nil
		}
		return strings.ToLower(key), strings.TrimSpace(value)
	})
	if err := k.Load(provider, nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	// Normalizamos por si alguien manda ":8080"
	cfg.Port = strings.TrimPrefix(cfg.Port, ":")
	cfg.DatabaseDriver = strings.ToLower(cfg.DatabaseDriver)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if err := validate.Struct(cfg); err != nil {
		if missingDatabaseURL(err) {
			return Config{}, ErrMissingDatabaseURL
		}
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func missingDatabaseURL(err error) bool {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return false
	}
	for _, fieldError := range validationErrors {
		if fieldError.Field() == "DatabaseURL" {
			return true
		}
	}
	return false
}

// Addr devuelve la dirección de escucha del servidor HTTP.
func (cfg Config) Addr() string {
	return ":" + cfg.Port
}
