package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	HistoryStorePostgres = "postgres"
	HistoryStoreRedis    = "redis"
	HistoryStoreFile     = "file"
)

type Config struct {
	Environment string `toml:"environment"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// goals history persistence: postgres | redis | file
	HistoryStore     string `toml:"history_store"`
	HistoryFilePath  string `toml:"history_file_path"`
	HistoryCacheSize int    `toml:"history_cache_size"`

	// planning
	LookbackWeeks int `toml:"lookback_weeks"`
	Workers       int `toml:"workers"`
	MinSets       int `toml:"min_sets"`

	// goals display service
	Host                   string   `toml:"host"`
	Port                   int      `toml:"port"`
	PrometheusMetricsHost  string   `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort  string   `toml:"prometheus_metrics_port"`
	RateLimitAllowedPerMin int      `toml:"rate_limit_allowed_per_min"`
	AllowedOrigins         []string `toml:"allowed_origins"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file and returns the section for the given env,
// with defaults applied and values validated.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing", env)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LookbackWeeks <= 0 {
		c.LookbackWeeks = 2
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.MinSets <= 0 {
		c.MinSets = 1
	}
	if c.HistoryStore == "" {
		c.HistoryStore = HistoryStorePostgres
	}
	if c.HistoryCacheSize <= 0 {
		c.HistoryCacheSize = 32 * 1024 * 1024
	}
	if c.RateLimitAllowedPerMin <= 0 {
		c.RateLimitAllowedPerMin = 60
	}
}

func (c *Config) Validate() error {
	switch c.HistoryStore {
	case HistoryStorePostgres, HistoryStoreRedis:
	case HistoryStoreFile:
		if c.HistoryFilePath == "" {
			return errors.New("history_file_path must be set for the file history store")
		}
	default:
		return fmt.Errorf("unknown history store: %s", c.HistoryStore)
	}
	return nil
}
