package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MrEthical07/toxin"
	"github.com/MrEthical07/toxin/password"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Account store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config is the runtime configuration of toxin-server.
type Config struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Redis RedisConfig `yaml:"redis"`

	AccountStore string `yaml:"account_store"`
	DatabaseDSN  string `yaml:"database_dsn"`

	PasswordMode string        `yaml:"password_mode"`
	SessionTTL   time.Duration `yaml:"session_ttl"`

	Metrics bool `yaml:"metrics"`
	Audit   bool `yaml:"audit"`
}

// RedisConfig addresses the session store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		ShutdownTimeout: 15 * time.Second,
		LogLevel:        "info",
		LogFormat:       "json",
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
		},
		AccountStore: StoreMemory,
		PasswordMode: password.ModeArgon2id,
		Metrics:      true,
	}
}

// LoadConfig layers defaults, the YAML file at path (skipped when path is
// empty), a .env file in the working directory and TOXIN_* environment
// variables, in that order.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env never overrides variables already set in the process.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Addr, "TOXIN_ADDR")
	setString(&cfg.LogLevel, "TOXIN_LOG_LEVEL")
	setString(&cfg.LogFormat, "TOXIN_LOG_FORMAT")
	setString(&cfg.Redis.Addr, "TOXIN_REDIS_ADDR")
	setString(&cfg.Redis.Password, "TOXIN_REDIS_PASSWORD")
	setString(&cfg.AccountStore, "TOXIN_ACCOUNT_STORE")
	setString(&cfg.DatabaseDSN, "TOXIN_DATABASE_DSN")
	setString(&cfg.PasswordMode, "TOXIN_PASSWORD_MODE")

	if v, ok := os.LookupEnv("TOXIN_REDIS_DB"); ok {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TOXIN_REDIS_DB: %w", err)
		}
		cfg.Redis.DB = db
	}
	if v, ok := os.LookupEnv("TOXIN_SESSION_TTL"); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TOXIN_SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = ttl
	}
	if v, ok := os.LookupEnv("TOXIN_SHUTDOWN_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TOXIN_SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownTimeout = d
	}
	if v, ok := os.LookupEnv("TOXIN_METRICS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TOXIN_METRICS: %w", err)
		}
		cfg.Metrics = b
	}
	if v, ok := os.LookupEnv("TOXIN_AUDIT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TOXIN_AUDIT: %w", err)
		}
		cfg.Audit = b
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = strings.TrimSpace(v)
	}
}

// Validate reports the first invalid setting, including engine settings
// derived from cfg.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown_timeout must be > 0")
	}
	if c.Redis.Addr == "" {
		return errors.New("redis.addr must not be empty")
	}
	switch c.AccountStore {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseDSN == "" {
			return errors.New("database_dsn is required for the postgres account store")
		}
	default:
		return fmt.Errorf("unknown account_store %q", c.AccountStore)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}

	engine := c.EngineConfig()
	return engine.Validate()
}

// EngineConfig derives the engine configuration.
func (c Config) EngineConfig() toxin.Config {
	cfg := toxin.DefaultConfig()
	cfg.Password.Mode = c.PasswordMode
	cfg.Session.TTL = c.SessionTTL
	cfg.Metrics.Enabled = c.Metrics
	cfg.Metrics.EnableLatencyHistograms = c.Metrics
	cfg.Audit.Enabled = c.Audit
	return cfg
}
