// Package config loads runtime settings for the dialogs binary.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config is the top-level configuration file.
type Config struct {
	Listen  string        `yaml:"listen"`
	Metrics bool          `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
	Store   StoreConfig   `yaml:"store"`
	Bot     BotConfig     `yaml:"bot"`
	Session SessionConfig `yaml:"session"`
}

// LogConfig controls the application logger.
type LogConfig struct {
	Level string `yaml:"level"`
	// Format is "text" or "json".
	Format string `yaml:"format"`
}

// StoreConfig selects and configures conversation persistence.
type StoreConfig struct {
	Kind  string      `yaml:"kind"`
	File  FileConfig  `yaml:"file"`
	Redis RedisConfig `yaml:"redis"`

	// EncryptionKey is a base64 AES-256 key; empty disables encryption.
	EncryptionKey string `yaml:"encryption_key"`
	// FallbackKeys decrypt data written before a key rotation.
	FallbackKeys []string `yaml:"fallback_keys"`
}

type FileConfig struct {
	Dir string `yaml:"dir"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

// BotConfig holds conversational defaults.
type BotConfig struct {
	DefaultLocale string `yaml:"default_locale"`
	Welcome       string `yaml:"welcome"`
	// MaxInputSize caps each user-supplied string in bytes. Zero falls back
	// to DIALOGS_MAX_INPUT_SIZE, then 4096.
	MaxInputSize int `yaml:"max_input_size"`
}

// SessionConfig tunes per-conversation locking.
type SessionConfig struct {
	LockTTL time.Duration `yaml:"lock_ttl"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Listen: ":8080",
		Log:    LogConfig{Level: "info", Format: "text"},
		Store: StoreConfig{
			Kind:  StoreMemory,
			File:  FileConfig{Dir: ".dialogs/conversations"},
			Redis: RedisConfig{Addr: "localhost:6379", Prefix: "dialogs:"},
		},
		Bot:     BotConfig{DefaultLocale: "en-us"},
		Session: SessionConfig{LockTTL: 30 * time.Second},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	var errs []error
	switch c.Store.Kind {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		errs = append(errs, fmt.Errorf("store.kind %q must be one of memory, file, redis", c.Store.Kind))
	}
	if c.Store.Kind == StoreRedis && c.Store.Redis.Addr == "" {
		errs = append(errs, errors.New("store.redis.addr is required"))
	}
	if c.Store.Kind == StoreFile && c.Store.File.Dir == "" {
		errs = append(errs, errors.New("store.file.dir is required"))
	}
	if c.Bot.MaxInputSize < 0 {
		errs = append(errs, errors.New("bot.max_input_size must not be negative"))
	}
	if c.Session.LockTTL < 0 {
		errs = append(errs, errors.New("session.lock_ttl must not be negative"))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}
	return errors.Join(errs...)
}

// ParseLevel maps a level name to slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}
