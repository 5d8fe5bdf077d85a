// Package config resolves the dashboard server settings from an optional
// TOML file, a .env file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/penwyp/go-chatlens/internal/core/model"
	"github.com/penwyp/go-chatlens/internal/data/archive"
	"github.com/penwyp/go-chatlens/internal/util"
)

const (
	DefaultPort        = "8080"
	DefaultEnv         = "development"
	DefaultMaxUploadMB = 64
)

// Config holds all configuration for the dashboard server.
type Config struct {
	Port        string `toml:"port"`
	Env         string `toml:"env"`
	Folder      string `toml:"folder"`
	Timezone    string `toml:"timezone"`
	MaxUploadMB int    `toml:"max_upload_mb"`
	TopN        int    `toml:"top_n"`
	WatchDir    string `toml:"watch_dir"`
	LogLevel    string `toml:"log_level"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Port:        DefaultPort,
		Env:         DefaultEnv,
		Folder:      archive.DefaultFolder,
		Timezone:    "Local",
		MaxUploadMB: DefaultMaxUploadMB,
		TopN:        model.DefaultTopN,
		LogLevel:    "info",
	}
}

// DefaultPath returns ~/.go-chatlens/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".go-chatlens", "config.toml"), nil
}

// Load reads path on top of the defaults, then applies .env and the
// environment. An empty path reads the default file if it exists; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	required := path != ""
	if !required {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			if required || !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
	}

	// Load .env file if it exists
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	util.LogDebugf("Loaded config file %s", path)
	return nil
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.Env = getEnv("ENV", c.Env)
	c.Folder = getEnv("CHATLENS_FOLDER", c.Folder)
	c.Timezone = getEnv("CHATLENS_TIMEZONE", c.Timezone)
	c.WatchDir = getEnv("CHATLENS_WATCH_DIR", c.WatchDir)
	c.LogLevel = getEnv("CHATLENS_LOG_LEVEL", c.LogLevel)

	var err error
	if c.MaxUploadMB, err = getEnvInt("CHATLENS_MAX_UPLOAD_MB", c.MaxUploadMB); err != nil {
		return err
	}
	if c.TopN, err = getEnvInt("CHATLENS_TOP_N", c.TopN); err != nil {
		return err
	}
	return nil
}

// Validate checks value ranges and the timezone name.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if c.Folder == "" {
		return fmt.Errorf("folder must not be empty")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("top_n must be positive, got %d", c.TopN)
	}
	if _, err := util.LoadLocation(c.Timezone); err != nil {
		return err
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// MaxUploadBytes is the upload body limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}
