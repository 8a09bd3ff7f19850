// Package config loads the zonecheck.yaml project file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the project file looked up by the CLI.
const DefaultFile = "zonecheck.yaml"

var validate = validator.New()

// Config is the content of a project file.
type Config struct {
	Components ComponentsConfig `mapstructure:"components"`
	Checks     ChecksConfig     `mapstructure:"checks"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Server     ServerConfig     `mapstructure:"server"`
	LogLevel   string           `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat  string           `mapstructure:"log_format" validate:"oneof=text json"`
}

// ComponentsConfig selects the component files.
type ComponentsConfig struct {
	Dir     string   `mapstructure:"dir" validate:"required"`
	Include []string `mapstructure:"include"`
	Exclude []string `mapstructure:"exclude"`
}

// ChecksConfig tunes the checkers.
type ChecksConfig struct {
	// Workers is the determinism pool size; 0 picks one per spare CPU.
	Workers int           `mapstructure:"workers" validate:"gte=0"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// CacheConfig selects where verdicts are kept.
type CacheConfig struct {
	Backend string       `mapstructure:"backend" validate:"oneof=memory redis sqlite"`
	Redis   RedisConfig  `mapstructure:"redis"`
	SQLite  SQLiteConfig `mapstructure:"sqlite"`
}

// RedisConfig configures the Redis verdict store.
type RedisConfig struct {
	Address  string        `mapstructure:"address" validate:"omitempty,hostname_port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db" validate:"gte=0"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" validate:"gte=0"`
	// Lock makes replicas sharing the store take turns on a query.
	Lock bool `mapstructure:"lock"`
}

// SQLiteConfig configures the SQLite verdict archive.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig configures the HTTP and MCP surfaces.
type ServerConfig struct {
	Port    int  `mapstructure:"port" validate:"gte=0,lte=65535"`
	Metrics bool `mapstructure:"metrics"`
}

// Default returns the configuration used when no project file exists.
func Default() *Config {
	return &Config{
		Components: ComponentsConfig{Dir: "."},
		Cache: CacheConfig{
			Backend: "memory",
			SQLite:  SQLiteConfig{Path: filepath.Join(".zonecheck", "verdicts.db")},
		},
		Server:    ServerConfig{Port: 8080, Metrics: true},
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads a project file (YAML or JSON) on top of the defaults. A missing
// file yields the defaults. Relative paths are resolved against the file's
// directory.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, cfg.Validate()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	raw := map[string]any{}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	if err := decode(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}

	base := filepath.Dir(path)
	cfg.Components.Dir = resolve(base, cfg.Components.Dir)
	cfg.Cache.SQLite.Path = resolve(base, cfg.Cache.SQLite.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

func resolve(base, path string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// Validate checks field ranges and the settings each cache backend needs.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch c.Cache.Backend {
	case "redis":
		if c.Cache.Redis.Address == "" {
			return errors.New("invalid config: cache.redis.address is required for the redis backend")
		}
	case "sqlite":
		if c.Cache.SQLite.Path == "" {
			return errors.New("invalid config: cache.sqlite.path is required for the sqlite backend")
		}
	}
	if c.Cache.Redis.Lock && c.Cache.Backend != "redis" {
		return errors.New("invalid config: cache.redis.lock needs the redis backend")
	}
	return nil
}

// Level returns the slog level of LogLevel.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
