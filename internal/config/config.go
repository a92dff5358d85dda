// Package config loads service settings from defaults, an optional config
// file, an optional .env file and the environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port     string
	Database DatabaseConfig
	Redis    RedisConfig
	CacheTTL time.Duration
	// EventsMaxLen caps the transaction event stream. 0 means uncapped.
	EventsMaxLen int64
	Log          LogConfig
}

type DatabaseConfig struct {
	Driver string
	URL    string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LogConfig struct {
	Level  string
	Format string
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// SetDefaults registers every key with its default so AutomaticEnv can see it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "5000")
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.url", "budget.db")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("events.max_len", 10000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Load reads configuration into v and returns it. configFile may be empty, in
// which case ./config.yaml is used if present. A missing .env file is fine.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	SetDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Port: v.GetString("port"),
		Database: DatabaseConfig{
			Driver: v.GetString("database.driver"),
			URL:    v.GetString("database.url"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		CacheTTL:     v.GetDuration("cache.ttl"),
		EventsMaxLen: v.GetInt64("events.max_len"),
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("invalid configuration: unsupported database.driver %q", c.Database.Driver)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("invalid configuration: database.url is required")
	}
	if c.Port == "" {
		return fmt.Errorf("invalid configuration: port is required")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("invalid configuration: cache.ttl must not be negative")
	}
	if c.EventsMaxLen < 0 {
		return fmt.Errorf("invalid configuration: events.max_len must not be negative")
	}
	return nil
}
