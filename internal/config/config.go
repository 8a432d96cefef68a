// Package config loads museum configuration in three layers: built-in
// defaults, an optional YAML file, then MUSEUM_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/naveenspark/museum/internal/layout"
	"github.com/naveenspark/museum/internal/logging"
	"github.com/naveenspark/museum/internal/session"
	"github.com/naveenspark/museum/pkg/domain"
)

// ConfigPathEnvVar overrides the config file search.
const ConfigPathEnvVar = "MUSEUM_CONFIG"

const envPrefix = "MUSEUM_"

// Config is the full client configuration.
type Config struct {
	API     APIConfig      `koanf:"api"`
	Session SessionConfig  `koanf:"session"`
	Storage StorageConfig  `koanf:"storage"`
	Log     logging.Config `koanf:"log"`
	Layout  LayoutConfig   `koanf:"layout"`
	Quiz    QuizConfig     `koanf:"quiz"`
	Metrics MetricsConfig  `koanf:"metrics"`
}

// APIConfig points at the museum backend. BreakerThreshold is the run of
// failed requests that opens the circuit breaker; zero disables it.
type APIConfig struct {
	URL              string        `koanf:"url" validate:"required,url"`
	Timeout          time.Duration `koanf:"timeout" validate:"gt=0"`
	BreakerThreshold uint32        `koanf:"breaker_threshold"`
	BreakerCooldown  time.Duration `koanf:"breaker_cooldown" validate:"required_with=BreakerThreshold"`
}

// SessionConfig tunes inactivity expiry.
type SessionConfig struct {
	Timeout       time.Duration `koanf:"timeout" validate:"gt=0"`
	CheckInterval time.Duration `koanf:"check_interval" validate:"gt=0"`
}

// StorageConfig says where the session is persisted.
type StorageConfig struct {
	Dir      string `koanf:"dir" validate:"required_unless=InMemory true"`
	InMemory bool   `koanf:"in_memory"`
}

// LayoutConfig holds one ring layout per gallery.
type LayoutConfig struct {
	Temples layout.RingConfig `koanf:"temples"`
	Weapons layout.RingConfig `koanf:"weapons"`
	Fossils layout.RingConfig `koanf:"fossils"`
	Shrine  layout.RingConfig `koanf:"shrine"`
}

// For returns the ring layout for a gallery name.
func (l LayoutConfig) For(name string) (layout.RingConfig, bool) {
	switch name {
	case string(domain.KindTemple):
		return l.Temples, true
	case string(domain.KindWeapon):
		return l.Weapons, true
	case string(domain.KindFossil):
		return l.Fossils, true
	case layout.Shrine:
		return l.Shrine, true
	}
	return layout.RingConfig{}, false
}

// QuizConfig optionally replaces the bundled question bank.
type QuizConfig struct {
	Bank string `koanf:"bank" validate:"omitempty,file"`
}

// MetricsConfig enables the Prometheus listener when Addr is set.
type MetricsConfig struct {
	Addr string `koanf:"addr" validate:"omitempty,hostname_port"`
}

// DefaultDataDir returns ~/.museum.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".museum"
	}
	return filepath.Join(home, ".museum")
}

// DefaultConfigPaths lists where a config file is looked for, in order.
func DefaultConfigPaths() []string {
	return []string{
		"museum.yaml",
		"museum.yml",
		filepath.Join(DefaultDataDir(), "config.yaml"),
	}
}

func defaultConfig() *Config {
	dataDir := DefaultDataDir()
	presets := layout.Presets()
	return &Config{
		API: APIConfig{
			URL:     "http://localhost:8000",
			Timeout:          15 * time.Second,
			BreakerThreshold: 5,
			BreakerCooldown:  30 * time.Second,
		},
		Session: SessionConfig{
			Timeout:       session.DefaultTimeout,
			CheckInterval: session.DefaultCheckInterval,
		},
		Storage: StorageConfig{
			Dir: filepath.Join(dataDir, "session"),
		},
		Log: logging.Config{
			Level:  "info",
			Format: "json",
			File:   filepath.Join(dataDir, "museum.log"),
		},
		Layout: LayoutConfig{
			Temples: presets[string(domain.KindTemple)],
			Weapons: presets[string(domain.KindWeapon)],
			Fossils: presets[string(domain.KindFossil)],
			Shrine:  presets[layout.Shrine],
		},
	}
}

// Load builds the configuration. path names a YAML file; when empty the
// MUSEUM_CONFIG variable and then DefaultConfigPaths are searched, and a
// missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// MUSEUM_API_URL -> api.url
	if err := k.Load(env.Provider(envPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var envMappings = map[string]string{
	"api_url":                "api.url",
	"api_timeout":            "api.timeout",
	"api_breaker_threshold":  "api.breaker_threshold",
	"api_breaker_cooldown":   "api.breaker_cooldown",
	"session_timeout":        "session.timeout",
	"session_check_interval": "session.check_interval",
	"storage_dir":            "storage.dir",
	"storage_in_memory":      "storage.in_memory",
	"log_level":              "log.level",
	"log_format":             "log.format",
	"log_file":               "log.file",
	"quiz_bank":              "quiz.bank",
	"metrics_addr":           "metrics.addr",
}

// envTransformFunc maps MUSEUM_* variables to config keys. Unknown
// variables are dropped.
func envTransformFunc(key string) string {
	key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(envPrefix))
	return envMappings[key]
}

var validate = validator.New()

// Validate checks field constraints and every ring layout.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Session.CheckInterval > c.Session.Timeout {
		return fmt.Errorf("session.check_interval %s exceeds session.timeout %s", c.Session.CheckInterval, c.Session.Timeout)
	}
	for name, rc := range map[string]layout.RingConfig{
		"temples": c.Layout.Temples,
		"weapons": c.Layout.Weapons,
		"fossils": c.Layout.Fossils,
		"shrine":  c.Layout.Shrine,
	} {
		if err := layout.Validate(rc); err != nil {
			return fmt.Errorf("layout.%s: %w", name, err)
		}
	}
	return nil
}
