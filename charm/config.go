// ABOUTME: Configuration for the Charm KV backup connection
// ABOUTME: Persists server host and auto-sync preference next to the database

package charm

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/charm/kv"
)

const (
	// DefaultCharmHost is the self-hosted 2389 research server.
	DefaultCharmHost = "charm.2389.dev"

	// AppName names the Charm KV database.
	AppName = "officecrm"

	ConfigFileName = "charm-config.json"
)

// Config holds charm connection settings.
type Config struct {
	Host string `json:"host,omitempty"`

	// AutoSync pushes to the server after every snapshot write.
	AutoSync bool `json:"auto_sync"`

	StaleThreshold time.Duration `json:"stale_threshold,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Host:           DefaultCharmHost,
		AutoSync:       true,
		StaleThreshold: kv.DefaultStaleThreshold,
	}
}

func configPath() (string, error) {
	dataDir := filepath.Join(xdg.DataHome, AppName)
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(dataDir, ConfigFileName), nil
}

// LoadConfig reads the saved config. A missing or unreadable file
// yields defaults. A non-empty hostOverride (from OFFICECRM_CHARM_HOST)
// wins over the saved host but is not persisted.
func LoadConfig(hostOverride string) (*Config, error) {
	cfg, err := loadSaved()
	if err != nil {
		return nil, err
	}
	if hostOverride != "" {
		cfg.Host = hostOverride
	}
	return cfg, nil
}

func loadSaved() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return DefaultConfig(), nil //nolint:nilerr // no writable data dir, run with defaults
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), nil //nolint:nilerr // corrupt config, run with defaults
	}
	if cfg.Host == "" {
		cfg.Host = DefaultCharmHost
	}
	if cfg.StaleThreshold == 0 {
		cfg.StaleThreshold = kv.DefaultStaleThreshold
	}
	return &cfg, nil
}

func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func (c *Config) SetAutoSync(enabled bool) error {
	c.AutoSync = enabled
	return c.Save()
}
