package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BASE_URL", "")
	t.Setenv("EMAIL", "")
	t.Setenv("SENHA", "")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "alunos.csv", cfg.CSVPath)
	assert.Equal(t, "authData.json", cfg.AuthFile)
	assert.Equal(t, 3*time.Second, cfg.RecordSettle())
	assert.Equal(t, 30*time.Second, cfg.Browser.NavTimeout())
	assert.False(t, cfg.Browser.Headless)
}

func TestLoad(t *testing.T) {
	t.Run("file over defaults", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(
			"base_url: https://portal.example\nrecord_settle_ms: 500\nbrowser:\n  headless: true\n",
		), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "https://portal.example", cfg.BaseURL)
		assert.Equal(t, 500*time.Millisecond, cfg.RecordSettle())
		assert.True(t, cfg.Browser.Headless)
		// Untouched keys keep their defaults.
		assert.Equal(t, "alunos.csv", cfg.CSVPath)
	})

	t.Run("no file is fine", func(t *testing.T) {
		clearEnv(t)
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Empty(t, cfg.BaseURL)
	})

	t.Run("missing file path is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("environment wins over the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(
			"base_url: https://file.example\nemail: file@example.com\n",
		), 0o644))

		t.Setenv("BASE_URL", "https://env.example")
		t.Setenv("EMAIL", "env@example.com")
		t.Setenv("SENHA", "env-pw")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "https://env.example", cfg.BaseURL)
		assert.Equal(t, "env@example.com", cfg.Email)
		assert.Equal(t, "env-pw", cfg.Senha)
	})
}

func TestValidate(t *testing.T) {
	t.Run("missing base URL is fatal", func(t *testing.T) {
		cfg := Default()
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BASE_URL")
	})

	t.Run("base URL set passes", func(t *testing.T) {
		cfg := Default()
		cfg.BaseURL = "https://portal.example"
		assert.NoError(t, cfg.Validate())
	})
}
