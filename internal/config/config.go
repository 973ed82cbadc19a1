package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"justdoit/internal/store"
	"justdoit/internal/tasks"
)

// DefaultFile is read when no config file is given and it exists.
const DefaultFile = "justdoit.yaml"

// Config holds the runtime settings. Values come from defaults, then the
// optional YAML file, then the environment.
type Config struct {
	Port           string `mapstructure:"port"`
	StorageBackend string `mapstructure:"storage_backend"`
	StorageKey     string `mapstructure:"storage_key"`
	DBPath         string `mapstructure:"db_path"`
	RedisURL       string `mapstructure:"redis_url"`
	DataFile       string `mapstructure:"data_file"`
	IDScheme       string `mapstructure:"id_scheme"`
	LogLevel       string `mapstructure:"log_level"`
}

var defaults = map[string]string{
	"port":            "8080",
	"storage_backend": store.BackendSQLite,
	"storage_key":     store.DefaultKey,
	"db_path":         "./data/justdoit.db",
	"redis_url":       "localhost:6379",
	"data_file":       "./data/justdoit.json",
	"id_scheme":       tasks.SchemeLegacy,
	"log_level":       "info",
}

// Load reads configuration. An explicit path must exist; with an empty path
// DefaultFile is used if present.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, err
		}
	}

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))
	cfg.IDScheme = strings.ToLower(strings.TrimSpace(cfg.IDScheme))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case store.BackendSQLite, store.BackendRedis, store.BackendFile, store.BackendMemory:
	default:
		return fmt.Errorf("invalid storage_backend %q", c.StorageBackend)
	}
	switch c.IDScheme {
	case tasks.SchemeLegacy, tasks.SchemeUUID:
	default:
		return fmt.Errorf("invalid id_scheme %q", c.IDScheme)
	}
	if c.StorageKey == "" {
		return errors.New("storage_key must not be empty")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}

// StoreOptions returns the settings for store.Open.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend:  c.StorageBackend,
		Key:      c.StorageKey,
		DBPath:   c.DBPath,
		RedisURL: c.RedisURL,
		DataFile: c.DataFile,
	}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.Port)
}

// SetupLogging applies the configured level to the standard logrus logger.
func (c *Config) SetupLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}
