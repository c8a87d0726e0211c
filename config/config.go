// ABOUTME: Runtime configuration loaded from the environment and an optional .env file
// ABOUTME: Resolves XDG default paths for the database and integration state
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppName names the XDG data directory.
const AppName = "officecrm"

// Config holds all runtime settings.
type Config struct {
	DBPath      string `env:"OFFICECRM_DB_PATH"`
	User        string `env:"OFFICECRM_USER"`
	LogLevel    string `env:"OFFICECRM_LOG_LEVEL" envDefault:"info"`
	Environment string `env:"OFFICECRM_ENV" envDefault:"development"`
	WebPort     int    `env:"OFFICECRM_WEB_PORT" envDefault:"8080"`
	CharmHost   string `env:"OFFICECRM_CHARM_HOST"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
}

// Load reads .env from the working directory when present, then parses
// the environment. A missing .env file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return Parse()
}

// Parse reads configuration from the environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	return cfg, nil
}

// DefaultDBPath returns the XDG data path for the database.
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, AppName, AppName+".db")
}

// DataDir returns the XDG data directory for auxiliary state.
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}
