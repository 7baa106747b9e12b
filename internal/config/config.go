package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/statpool/internal/stat"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the statpool CLI.
type Config struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	Store StoreConfig `yaml:"store"`

	// Pools seeded when nothing is stored yet for (owner, name).
	Pools []PoolEntry `yaml:"pools"`
}

// StoreConfig selects where pool snapshots are persisted.
type StoreConfig struct {
	Driver   string         `yaml:"driver" env:"STATPOOL_STORE_DRIVER"`
	Path     string         `yaml:"path" env:"STATPOOL_STORE_PATH"` // sqlite only
	Database DatabaseConfig `yaml:"database"`                       // postgres only
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"STATPOOL_DB_HOST"`
	Port     int    `yaml:"port" env:"STATPOOL_DB_PORT"`
	User     string `yaml:"user" env:"STATPOOL_DB_USER"`
	Password string `yaml:"password" env:"STATPOOL_DB_PASSWORD"`
	DBName   string `yaml:"dbname" env:"STATPOOL_DB_NAME"`
	SSLMode  string `yaml:"sslmode" env:"STATPOOL_DB_SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// PoolEntry describes one pool owned by a game object.
// Bounds are taken as is: the pool corrects min >= max on creation.
type PoolEntry struct {
	Owner         string `yaml:"owner"`
	Name          string `yaml:"name"`
	stat.Snapshot `yaml:",inline"`
}

// Key returns "owner/name".
func (e PoolEntry) Key() string {
	return e.Owner + "/" + e.Name
}

// Default returns Config with sensible defaults.
func Default() Config {
	return Config{
		LogLevel: "info",
		Store: StoreConfig{
			Driver: DriverSQLite,
			Path:   "data/statpool.db",
			Database: DatabaseConfig{
				Host:     "127.0.0.1",
				Port:     5432,
				User:     "statpool",
				Password: "statpool",
				DBName:   "statpool",
				SSLMode:  "disable",
			},
		},
		Pools: []PoolEntry{
			{
				Owner:    "player",
				Name:     "health",
				Snapshot: stat.DefaultSnapshot(),
			},
		},
	}
}

// Load loads config from a YAML file and applies STATPOOL_* environment
// overrides on top. If the file doesn't exist, defaults are used.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides cfg with STATPOOL_* variables.
// Pools are not overridable from the environment.
func applyEnv(cfg *Config) error {
	logging := struct {
		Level string `env:"STATPOOL_LOG_LEVEL"`
	}{Level: cfg.LogLevel}
	if err := env.Parse(&logging); err != nil {
		return err
	}
	cfg.LogLevel = logging.Level

	return env.Parse(&cfg.Store)
}

// Validate checks store settings and pool identities.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite:
		if strings.TrimSpace(c.Store.Path) == "" {
			return fmt.Errorf("store path is required for driver %q", DriverSQLite)
		}
	case DriverPostgres:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	seen := make(map[string]struct{}, len(c.Pools))
	for i, p := range c.Pools {
		if p.Owner == "" || p.Name == "" {
			return fmt.Errorf("pool #%d: owner and name are required", i)
		}
		if _, dup := seen[p.Key()]; dup {
			return fmt.Errorf("pool %s: duplicate entry", p.Key())
		}
		seen[p.Key()] = struct{}{}
	}
	return nil
}

// ParseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
