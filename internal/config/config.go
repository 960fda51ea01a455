package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"nuclight.org/buttonpoll/internal/codec"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendBadger = "badger"
)

// Slot lengths outside this range either waste the keyboard or exceed what
// Telegram accepts as callback data.
const (
	MinSlotLength = 16
	MaxSlotLength = codec.TelegramSlotLen
)

type Config struct {
	TelegramToken string `yaml:"telegramToken" envconfig:"TELEGRAM_BOT_API_KEY"`
	StoreBackend  string `yaml:"storeBackend"  envconfig:"STORE_BACKEND"`
	DBPath        string `yaml:"dbPath"        envconfig:"DB_PATH"`
	RedisURL      string `yaml:"redisUrl"      envconfig:"REDIS_URL"`
	BadgerDir     string `yaml:"badgerDir"     envconfig:"BADGER_DIR"`
	SlotLength    int    `yaml:"slotLength"    envconfig:"SLOT_LENGTH"`
	MetricsAddr   string `yaml:"metricsAddr"   envconfig:"METRICS_ADDR"`
	SentryDSN     string `yaml:"sentryDsn"     envconfig:"SENTRY_DSN"`
	NameCacheSize int64  `yaml:"nameCacheSize" envconfig:"NAME_CACHE_SIZE"`
	Debug         bool   `yaml:"debug"         envconfig:"DEBUG"`
}

func defaults() *Config {
	return &Config{
		StoreBackend:  BackendSQLite,
		DBPath:        "data/polls.db",
		SlotLength:    codec.TelegramSlotLen,
		NameCacheSize: 10000,
	}
}

// Load builds the configuration from defaults, then the optional YAML file at
// path, then a .env file in the working directory, then the environment.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_API_KEY is required")
	}

	switch c.StoreBackend {
	case BackendSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for the sqlite store")
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis store")
		}
	case BackendBadger:
	default:
		return fmt.Errorf("STORE_BACKEND must be one of sqlite, redis or badger, got %q", c.StoreBackend)
	}

	if c.SlotLength < MinSlotLength || c.SlotLength > MaxSlotLength {
		return fmt.Errorf("SLOT_LENGTH must be between %d and %d, got %d", MinSlotLength, MaxSlotLength, c.SlotLength)
	}
	if c.NameCacheSize <= 0 {
		return fmt.Errorf("NAME_CACHE_SIZE must be positive, got %d", c.NameCacheSize)
	}
	return nil
}
