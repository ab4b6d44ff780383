// Package config loads the CLI configuration from ARTSY_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/artsyapp/artsy/pkg/artsycli"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable name.
const Prefix = "ARTSY"

// Storage backends for the cookie store.
const (
	StorageFile    = "file"
	StorageSQLite  = "sqlite"
	StorageKeyring = "keyring"
	StorageMemory  = "memory"
)

// StorageKinds lists the accepted values of Config.Storage.
var StorageKinds = []string{StorageFile, StorageSQLite, StorageKeyring, StorageMemory}

// ErrUnknownStorage is returned by Validate for an unsupported backend.
var ErrUnknownStorage = errors.New("unknown storage backend")

// Config holds all CLI configuration.
type Config struct {
	BaseURL   string        `envconfig:"BASE_URL" default:"https://artsy-android-backend.wl.r.appspot.com/"`
	ConfigDir string        `envconfig:"CONFIG_DIR"`
	Storage   string        `envconfig:"STORAGE" default:"file"`
	Timeout   time.Duration `envconfig:"TIMEOUT" default:"30s"`
	RetryMax  int           `envconfig:"RETRY_MAX" default:"2"`
	RateLimit float64       `envconfig:"RATE_LIMIT" default:"0"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"warn"`
	LogDev   bool   `envconfig:"LOG_DEV" default:"false"`
	// Debug logs HTTP request and response bodies.
	Debug bool `envconfig:"DEBUG" default:"false"`

	// MetricsFile, if set, receives the session metrics in Prometheus
	// text format when the command exits.
	MetricsFile string `envconfig:"METRICS_FILE"`
}

var userConfigDir = os.UserConfigDir

// Load reads the configuration from the environment and fills defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.ConfigDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		cfg.ConfigDir = dir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no variables are set, with
// ConfigDir left empty.
func Default() *Config {
	return &Config{
		BaseURL:  artsycli.DefaultBaseURL,
		Storage:  StorageFile,
		Timeout:  artsycli.DefaultTimeout,
		RetryMax: artsycli.DefaultRetryMax,
		LogLevel: "warn",
	}
}

// DefaultConfigDir returns the per-user artsy directory.
func DefaultConfigDir() (string, error) {
	dir, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "artsy"), nil
}

// Validate reports configuration values no command can work with.
func (c *Config) Validate() error {
	if !slices.Contains(StorageKinds, c.Storage) {
		return fmt.Errorf("%w %q (want one of %v)", ErrUnknownStorage, c.Storage, StorageKinds)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout %s", c.Timeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("invalid rate limit %v", c.RateLimit)
	}
	return nil
}
