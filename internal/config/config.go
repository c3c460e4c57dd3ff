// Package config loads the runner configuration: an optional YAML file with
// environment overrides, validated before anything touches the browser.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Browser configures the automation driver.
type Browser struct {
	Headless        bool `yaml:"headless"`
	ViewportWidth   int  `yaml:"viewport_width"`
	ViewportHeight  int  `yaml:"viewport_height"`
	NavTimeoutMs    int  `yaml:"nav_timeout_ms"`
	ActionTimeoutMs int  `yaml:"action_timeout_ms"`
	TypeDelayMs     int  `yaml:"type_delay_ms"`
}

// Config holds everything a run needs.
type Config struct {
	BaseURL string `yaml:"base_url"`
	Email   string `yaml:"email"`
	Senha   string `yaml:"senha"`

	CSVPath   string `yaml:"csv_path"`
	AuthFile  string `yaml:"auth_file"`
	ReportDir string `yaml:"report_dir"`

	// RecordSettleMs is the pause between records, letting the remote UI
	// return to a stable state before the next search.
	RecordSettleMs int `yaml:"record_settle_ms"`

	Browser Browser `yaml:"browser"`
}

// Default returns the configuration used when no file is given. The settle
// delay and viewport match what was tuned against the live application.
func Default() Config {
	return Config{
		CSVPath:        "alunos.csv",
		AuthFile:       "authData.json",
		ReportDir:      ".",
		RecordSettleMs: 3000,
		Browser: Browser{
			Headless:        false,
			ViewportWidth:   1920,
			ViewportHeight:  1080,
			NavTimeoutMs:    30000,
			ActionTimeoutMs: 15000,
			TypeDelayMs:     100,
		},
	}
}

// Load reads the optional YAML file over the defaults and applies the
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides keeps the historical environment contract: BASE_URL,
// EMAIL and SENHA always win over the file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("EMAIL"); v != "" {
		c.Email = v
	}
	if v := os.Getenv("SENHA"); v != "" {
		c.Senha = v
	}
}

// Validate rejects configurations a run cannot start under.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("base URL is not set (base_url in the config file or BASE_URL in the environment)")
	}
	return nil
}

// RecordSettle returns the inter-record pause as a duration.
func (c *Config) RecordSettle() time.Duration {
	return time.Duration(c.RecordSettleMs) * time.Millisecond
}

// NavTimeout returns the navigation bound.
func (b *Browser) NavTimeout() time.Duration {
	return time.Duration(b.NavTimeoutMs) * time.Millisecond
}

// ActionTimeout returns the element interaction bound.
func (b *Browser) ActionTimeout() time.Duration {
	return time.Duration(b.ActionTimeoutMs) * time.Millisecond
}

// TypeDelay returns the pause between keystrokes on masked inputs.
func (b *Browser) TypeDelay() time.Duration {
	return time.Duration(b.TypeDelayMs) * time.Millisecond
}
