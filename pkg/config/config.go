// Package config loads the daemon/CLI configuration from a YAML file
// with environment-variable expansion and .env overlay, following the
// Load/Save shape in jhkimqd-chaos-utils's pkg/config: defaults first,
// optional file overlay, explicit env vars taking final priority.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the daemon/CLI's full configuration surface.
type Config struct {
	Engine    EngineConfig    `yaml:"engine"`
	Server    ServerConfig    `yaml:"server"`
	Redis     RedisConfig     `yaml:"redis"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	SQLite    SQLiteConfig    `yaml:"sqlite"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// EngineConfig seeds a new Context's defaults.
type EngineConfig struct {
	NumSimulations int    `yaml:"num_simulations"`
	BinomialSteps  int    `yaml:"binomial_steps"`
	DefaultSeed    uint64 `yaml:"default_seed"`
}

// ServerConfig configures the gRPC listener.
type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// RedisConfig configures the price cache and batch queue.
type RedisConfig struct {
	Addr       string        `yaml:"addr"`
	CacheTTL   time.Duration `yaml:"cache_ttl"`
	QueueDB    int           `yaml:"queue_db"`
	CacheDB    int           `yaml:"cache_db"`
}

// PostgresConfig configures the scenario registry.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// SQLiteConfig configures the local pricing-call history.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig configures zerolog + lumberjack output.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	FilePath   string `yaml:"file_path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// MetricsConfig configures the Prometheus exporter.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Default returns the hardwired defaults, matching the Context defaults
// of 100,000 simulations and 100 binomial steps (spec.md §3).
func Default() *Config {
	return &Config{
		Engine: EngineConfig{NumSimulations: 100_000, BinomialSteps: 100},
		Server: ServerConfig{Port: 50055, ReadTimeout: 30 * time.Second, WriteTimeout: 30 * time.Second},
		Redis:  RedisConfig{Addr: "localhost:6379", CacheTTL: time.Hour, QueueDB: 0, CacheDB: 1},
		SQLite: SQLiteConfig{Path: "pricerd.db"},
		Logging: LoggingConfig{
			Level: "info", Format: "console", FilePath: "pricerd.log",
			MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 28,
		},
		Metrics: MetricsConfig{Enabled: true, Addr: ":9090"},
	}
}

// Load reads envFile (if present, via godotenv) then path (a YAML
// file, with ${VAR}-style environment expansion) over Default(). A
// missing config file is not an error — defaults (plus any env
// overlay) are returned as-is.
func Load(path, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: load env file: %w", err)
		}
	}

	cfg := Default()

	if path == "" {
		path = "pricerd.yaml"
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file: %w", err)
		}

		expanded := []byte(os.ExpandEnv(string(data)))
		if err := yaml.Unmarshal(expanded, cfg); err != nil {
			return nil, fmt.Errorf("config: parse file: %w", err)
		}
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		cfg.Postgres.DSN = dsn
	}

	return cfg, nil
}

// Save writes cfg to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: write file: %w", err)
	}
	return nil
}
