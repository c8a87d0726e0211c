package config

import (
	"os"
	"strings"
	"testing"
)

// unsetenv removes key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unsetenv %s: %v", key, err)
	}
}

func TestParseDefaults(t *testing.T) {
	unsetenv(t, "OFFICECRM_DB_PATH")
	unsetenv(t, "OFFICECRM_WEB_PORT")
	unsetenv(t, "OFFICECRM_LOG_LEVEL")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.WebPort != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.WebPort)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %s", cfg.LogLevel)
	}
	if !strings.HasSuffix(cfg.DBPath, "officecrm.db") {
		t.Errorf("expected XDG default db path, got %s", cfg.DBPath)
	}
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("OFFICECRM_DB_PATH", "/tmp/custom.db")
	t.Setenv("OFFICECRM_USER", "alice")
	t.Setenv("OFFICECRM_WEB_PORT", "9090")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.DBPath != "/tmp/custom.db" {
		t.Errorf("expected overridden db path, got %s", cfg.DBPath)
	}
	if cfg.User != "alice" {
		t.Errorf("expected user alice, got %s", cfg.User)
	}
	if cfg.WebPort != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.WebPort)
	}
}

func TestParseInvalidPort(t *testing.T) {
	t.Setenv("OFFICECRM_WEB_PORT", "eighty")

	_, err := Parse()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
