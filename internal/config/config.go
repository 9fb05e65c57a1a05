// Package config loads settings from a YAML file, dotenv files and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/educator-insights/internal/tier"
)

// Config is the full application configuration.
type Config struct {
	Backend   BackendConfig   `yaml:"backend"`
	Synthetic SyntheticConfig `yaml:"synthetic"`
	Tier      tier.Rules      `yaml:"tier"`
	Store     StoreConfig     `yaml:"store"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// BackendConfig configures the conversation service client.
type BackendConfig struct {
	BaseURL     string `yaml:"base_url"`
	AltBaseURL  string `yaml:"alt_base_url"`
	Timeout     string `yaml:"timeout"`
	Concurrency int    `yaml:"concurrency"`
}

// SyntheticConfig configures the demo data provider.
type SyntheticConfig struct {
	Delay string `yaml:"delay"`
}

// StoreConfig configures the account directory.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// Default builds the default configuration.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:     "http://localhost:8000",
			AltBaseURL:  "http://localhost:8000/api",
			Timeout:     "30s",
			Concurrency: 8,
		},
		Synthetic: SyntheticConfig{Delay: "300ms"},
		Tier:      tier.DefaultRules(),
		Store:     StoreConfig{Path: filepath.Join(homeDir(), ".educator-insights", "accounts.db")},
		Server:    ServerConfig{Listen: ":8080"},
		Logging:   LoggingConfig{Level: "info", Format: "json"},
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// DefaultPath returns the config file path, honouring EDUCATOR_INSIGHTS_CONFIG.
func DefaultPath() string {
	if p := os.Getenv("EDUCATOR_INSIGHTS_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(homeDir(), ".educator-insights", "config.yaml")
}

// LoadDotEnv loads .env.local then .env from the working directory.
// Variables already set win; missing files are ignored.
func LoadDotEnv() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// firstEnv returns the first non-empty value among keys.
func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func (c *Config) applyEnvOverrides() {
	if v := firstEnv("DJANGO_URL", "NEXT_PUBLIC_DJANGO_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := firstEnv("API_URL", "NEXT_PUBLIC_API_URL"); v != "" {
		c.Backend.AltBaseURL = v
	}
	if v := os.Getenv("EDUCATOR_INSIGHTS_DB"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("EDUCATOR_INSIGHTS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("EDUCATOR_INSIGHTS_LISTEN"); v != "" {
		c.Server.Listen = v
	}
	if v := os.Getenv("EDUCATOR_INSIGHTS_SUPER_ADMINS"); v != "" {
		c.Tier.SuperAdminEmails = splitList(v)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks durations and limits.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if d, err := time.ParseDuration(c.Backend.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid backend.timeout %q", c.Backend.Timeout)
	}
	if c.Backend.Concurrency < 1 {
		return fmt.Errorf("backend.concurrency must be >= 1, got %d", c.Backend.Concurrency)
	}
	if d, err := time.ParseDuration(c.Synthetic.Delay); err != nil || d < 0 {
		return fmt.Errorf("invalid synthetic.delay %q", c.Synthetic.Delay)
	}
	return nil
}

// BackendTimeout returns the backend timeout as a duration.
func (c *Config) BackendTimeout() time.Duration {
	d, err := time.ParseDuration(c.Backend.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// SyntheticDelay returns the simulated demo latency.
func (c *Config) SyntheticDelay() time.Duration {
	d, err := time.ParseDuration(c.Synthetic.Delay)
	if err != nil || d < 0 {
		return 300 * time.Millisecond
	}
	return d
}
