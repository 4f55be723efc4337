package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig
	Logger   LoggerConfig
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Driver          string // "pgx", "postgres" (lib/pq) or "sqlite"
	DSN             string
	AutoMigrate     bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // seconds
	SlowQueryMillis int
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
	Output string // "stderr", "stdout" or a file path
}

// Supported database drivers.
const (
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// settings maps every key to the environment variable that overrides it.
// Keys follow the layout of appsettings.json.
var settings = []struct {
	key, env string
	def      any
}{
	{"ConnectionStrings.DefaultConnection", "DB_DSN", ""},
	{"Database.Driver", "DB_DRIVER", DriverPgx},
	{"Database.AutoMigrate", "DB_AUTO_MIGRATE", false},
	{"Database.MaxOpenConns", "DB_MAX_OPEN_CONNS", 10},
	{"Database.MaxIdleConns", "DB_MAX_IDLE_CONNS", 2},
	{"Database.ConnMaxLifetime", "DB_CONN_MAX_LIFETIME", 300},
	{"Database.SlowQueryMillis", "DB_SLOW_QUERY_MS", 200},
	{"Logging.Level", "LOG_LEVEL", "info"},
	{"Logging.Format", "LOG_FORMAT", "json"},
	{"Logging.Output", "LOG_OUTPUT", "northwind.log"},
}

// Load reads configuration from dir: a .env file is loaded into the
// environment first, then appsettings.json, with environment variables
// taking precedence over the file. Both files are optional.
func Load(dir string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("appsettings")
	v.SetConfigType("json")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read appsettings.json: %w", err)
		}
	}

	for _, s := range settings {
		v.SetDefault(s.key, s.def)
		if err := v.BindEnv(s.key, s.env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", s.env, err)
		}
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Driver:          v.GetString("Database.Driver"),
			DSN:             v.GetString("ConnectionStrings.DefaultConnection"),
			AutoMigrate:     v.GetBool("Database.AutoMigrate"),
			MaxOpenConns:    v.GetInt("Database.MaxOpenConns"),
			MaxIdleConns:    v.GetInt("Database.MaxIdleConns"),
			ConnMaxLifetime: v.GetInt("Database.ConnMaxLifetime"),
			SlowQueryMillis: v.GetInt("Database.SlowQueryMillis"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("Logging.Level"),
			Format: v.GetString("Logging.Format"),
			Output: v.GetString("Logging.Output"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPgx, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("invalid database driver: %s (must be pgx, postgres or sqlite)", c.Database.Driver)
	}

	if c.Database.DSN == "" {
		return fmt.Errorf("connection string is required (ConnectionStrings.DefaultConnection or DB_DSN)")
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database max open connections must be at least 1")
	}

	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database max idle connections cannot be negative")
	}

	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database max idle connections cannot exceed max open connections")
	}

	if c.Database.ConnMaxLifetime < 0 {
		return fmt.Errorf("database connection lifetime cannot be negative")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Logger.Output == "" {
		return fmt.Errorf("log output is required")
	}

	return nil
}
