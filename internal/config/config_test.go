package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catsform.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "/cats", cfg.Server.BasePath)
	assert.Equal(t, "en", cfg.I18n.DefaultLocale)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: "127.0.0.1:9000"
  base_path: /kittens
  shutdown_timeout: 2s
i18n:
  default_locale: uk
theme:
  variant: dark
cache:
  pages: 4
log:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "/kittens", cfg.Server.BasePath)
	assert.Equal(t, 2*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout, "unset keys keep defaults")
	assert.Equal(t, "uk", cfg.I18n.DefaultLocale)
	assert.Equal(t, "dark", cfg.Theme.Variant)
	assert.Equal(t, 4, cfg.Cache.Pages)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 3, cfg.Log.MaxBackups)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":9000\"\n")
	t.Setenv("CATSFORM_ADDR", ":7000")
	t.Setenv("CATSFORM_CACHE_PAGES", "2")
	t.Setenv("CATSFORM_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, 2, cfg.Cache.Pages)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server: [not, a, map]"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server:\n  base_path: cats\ncache:\n  pages: -1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_path")
	assert.Contains(t, err.Error(), "cache.pages")
}
