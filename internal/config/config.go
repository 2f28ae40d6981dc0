// Package config loads the server configuration: defaults, then an optional
// YAML file, then CATSFORM_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-catsform/internal/logging"
)

type Config struct {
	Server ServerConfig   `yaml:"server"`
	I18n   I18nConfig     `yaml:"i18n"`
	Theme  ThemeConfig    `yaml:"theme"`
	Cache  CacheConfig    `yaml:"cache"`
	Log    logging.Config `yaml:"log"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	BasePath        string        `yaml:"base_path"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type I18nConfig struct {
	DefaultLocale string `yaml:"default_locale"`
}

type ThemeConfig struct {
	Name    string `yaml:"name"`
	Variant string `yaml:"variant"`
}

type CacheConfig struct {
	Pages int `yaml:"pages"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			BasePath:        "/cats",
			ReadTimeout:     10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		I18n:  I18nConfig{DefaultLocale: "en"},
		Cache: CacheConfig{Pages: 16},
		Log:   logging.DefaultConfig(),
	}
}

// Load reads path over the defaults. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path = strings.TrimSpace(path); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = envOrDefault("CATSFORM_ADDR", c.Server.Addr)
	c.Server.BasePath = envOrDefault("CATSFORM_BASE_PATH", c.Server.BasePath)
	c.I18n.DefaultLocale = envOrDefault("CATSFORM_LOCALE", c.I18n.DefaultLocale)
	c.Theme.Variant = envOrDefault("CATSFORM_THEME_VARIANT", c.Theme.Variant)
	c.Cache.Pages = envInt("CATSFORM_CACHE_PAGES", c.Cache.Pages)
	c.Log.Level = envOrDefault("CATSFORM_LOG_LEVEL", c.Log.Level)
	c.Log.FilePath = envOrDefault("CATSFORM_LOG_FILE", c.Log.FilePath)
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if !strings.HasPrefix(c.Server.BasePath, "/") {
		errs = append(errs, fmt.Errorf("server.base_path %q must start with /", c.Server.BasePath))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, errors.New("server.read_timeout must not be negative"))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must not be negative"))
	}
	if c.Cache.Pages <= 0 {
		errs = append(errs, errors.New("cache.pages must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
