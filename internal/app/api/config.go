package api

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.temporal.io/sdk/client"
	"golang.org/x/crypto/bcrypt"
)

// DatabaseConfig selects the storage backend. PostgreSQL wins when its DSN is set and
// reachable; SQLite at SQLitePath is used otherwise.
type DatabaseConfig struct {
	PostgresDSN string `envconfig:"POSTGRES_DSN"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"file:bookstore.db"`
}

// TemporalConfig points at the workflow service used for order placement.
type TemporalConfig struct {
	TemporalAddress   string `envconfig:"TEMPORAL_ADDRESS"`
	TemporalNamespace string `envconfig:"TEMPORAL_NAMESPACE"`
	TemporalDisabled  bool   `envconfig:"TEMPORAL_DISABLED"`
}

// TelemetryConfig tunes logging and trace export.
type TelemetryConfig struct {
	Environment  string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure bool   `envconfig:"OTEL_EXPORTER_OTLP_INSECURE"`
}

// Config carries environment-driven settings for the API process.
type Config struct {
	DatabaseConfig
	TemporalConfig
	TelemetryConfig

	Port            string        `envconfig:"PORT" default:"8080"`
	JWTSecret       string        `envconfig:"JWT_SECRET" required:"true"`
	JWTIssuer       string        `envconfig:"JWT_ISSUER" default:"it-literature-shop"`
	JWTTTL          time.Duration `envconfig:"JWT_TTL" default:"24h"`
	BcryptCost      int           `envconfig:"BCRYPT_COST" default:"10"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// WorkerConfig carries settings for the Temporal worker process.
type WorkerConfig struct {
	DatabaseConfig
	TemporalConfig
	TelemetryConfig
}

// SeedConfig carries settings for the demo data loader.
type SeedConfig struct {
	DatabaseConfig
	TelemetryConfig

	BcryptCost int `envconfig:"BCRYPT_COST" default:"10"`
}

// LoadConfig reads an optional .env file, then environment variables, applies
// defaults and validates basic constraints.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := load(&cfg); err != nil {
		return Config{}, err
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("PORT must be numeric, got %q", cfg.Port)
	}
	if err := validateBcryptCost(cfg.BcryptCost); err != nil {
		return Config{}, err
	}
	if cfg.JWTTTL <= 0 {
		return Config{}, errors.New("JWT_TTL must be positive")
	}
	if cfg.ShutdownTimeout <= 0 {
		return Config{}, errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	return cfg, nil
}

func LoadWorkerConfig() (WorkerConfig, error) {
	var cfg WorkerConfig
	if err := load(&cfg); err != nil {
		return WorkerConfig{}, err
	}
	return cfg, nil
}

func LoadSeedConfig() (SeedConfig, error) {
	var cfg SeedConfig
	if err := load(&cfg); err != nil {
		return SeedConfig{}, err
	}
	if err := validateBcryptCost(cfg.BcryptCost); err != nil {
		return SeedConfig{}, err
	}
	return cfg, nil
}

type temporalSettings interface {
	applyTemporalDefaults()
}

func (c *TemporalConfig) applyTemporalDefaults() {
	if strings.TrimSpace(c.TemporalAddress) == "" {
		c.TemporalAddress = client.DefaultHostPort
	}
	if strings.TrimSpace(c.TemporalNamespace) == "" {
		c.TemporalNamespace = client.DefaultNamespace
	}
}

func load(target any) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	if err := envconfig.Process("", target); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	if t, ok := target.(temporalSettings); ok {
		t.applyTemporalDefaults()
	}
	return nil
}

func validateBcryptCost(cost int) error {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}
