// Package config loads the officectl configuration from YAML with environment
// variable overrides.
package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cccteam/officesession/permissions"
	"github.com/cccteam/officesession/session"
	"github.com/go-playground/errors/v5"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvIdentityURL         = "OFFICECTL_IDENTITY_URL"
	EnvAPIURL              = "OFFICECTL_API_URL"
	EnvStorageKey          = "OFFICECTL_STORAGE_KEY"
	EnvTokenFile           = "OFFICECTL_TOKEN_FILE"
	EnvPermissionsFallback = "OFFICECTL_PERMISSIONS_FALLBACK"
)

type Config struct {
	Identity    IdentityConfig    `yaml:"identity"`
	API         APIConfig         `yaml:"api"`
	Session     SessionConfig     `yaml:"session"`
	Permissions PermissionsConfig `yaml:"permissions"`
}

type IdentityConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// APIConfig is the office API. URL defaults to the identity URL.
type APIConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type SessionConfig struct {
	RenewInterval  time.Duration `yaml:"renew_interval"`
	RefreshTimeout time.Duration `yaml:"refresh_timeout"`
	TokenFile      string        `yaml:"token_file"`
	StorageKey     string        `yaml:"storage_key"`
}

type PermissionsConfig struct {
	// Remote resolves permissions through GET /permissions/{role} instead of
	// the built in table.
	Remote   bool   `yaml:"remote"`
	Fallback string `yaml:"fallback"`
}

// DefaultPath returns the config file location under the user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}

	return filepath.Join(dir, "officectl", "config.yaml")
}

// Load reads path, applies environment overrides and validates the result.
// An empty path loads defaults and the environment only.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "os.ReadFile()")
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "yaml.Unmarshal()")
		}
	}

	applyEnvOverrides(cfg)

	if cfg.API.URL == "" {
		cfg.API.URL = cfg.Identity.URL
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "Config.Validate()")
	}

	return cfg, nil
}

func defaultConfig() *Config {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}

	return &Config{
		Identity: IdentityConfig{Timeout: 10 * time.Second},
		API:      APIConfig{Timeout: 10 * time.Second},
		Session: SessionConfig{
			RenewInterval:  session.DefaultRenewInterval,
			RefreshTimeout: session.DefaultRefreshTimeout,
			TokenFile:      filepath.Join(dir, "officectl", "refresh_token"),
		},
		Permissions: PermissionsConfig{Fallback: permissions.FallbackMinimal.String()},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvIdentityURL); v != "" {
		cfg.Identity.URL = v
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.API.URL = v
	}
	if v := os.Getenv(EnvStorageKey); v != "" {
		cfg.Session.StorageKey = v
	}
	if v := os.Getenv(EnvTokenFile); v != "" {
		cfg.Session.TokenFile = v
	}
	if v := os.Getenv(EnvPermissionsFallback); v != "" {
		cfg.Permissions.Fallback = v
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []string

	if msg := validateURL(c.Identity.URL); msg != "" {
		errs = append(errs, "identity.url "+msg+" (set "+EnvIdentityURL+")")
	}
	if msg := validateURL(c.API.URL); msg != "" {
		errs = append(errs, "api.url "+msg)
	}
	if c.Identity.Timeout <= 0 {
		errs = append(errs, "identity.timeout must be positive")
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, "api.timeout must be positive")
	}
	if c.Session.RenewInterval <= 0 {
		errs = append(errs, "session.renew_interval must be positive")
	}
	if c.Session.RefreshTimeout <= 0 {
		errs = append(errs, "session.refresh_timeout must be positive")
	} else if c.Session.RefreshTimeout >= c.Session.RenewInterval {
		errs = append(errs, "session.refresh_timeout must be shorter than session.renew_interval")
	}
	if _, err := permissions.ParseFallback(c.Permissions.Fallback); err != nil {
		errs = append(errs, "permissions.fallback must be minimal or default")
	}

	if len(errs) > 0 {
		return errors.Newf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// Fallback returns the parsed permissions fallback policy.
func (c *Config) Fallback() permissions.Fallback {
	f, _ := permissions.ParseFallback(c.Permissions.Fallback)

	return f
}

// Remembering reports if refresh tokens can be persisted across runs.
func (c *Config) Remembering() bool {
	return c.Session.TokenFile != "" && c.Session.StorageKey != ""
}

func validateURL(raw string) string {
	if raw == "" {
		return "is required"
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "must be an absolute URL"
	}

	return ""
}
