// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML loading, env var expansion, env overlay, durations and validation

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func clearOverlay(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"HTTP_ADDR", "DATABASE_PATH", "JWT_SECRET", "LOG_LEVEL",
		"LOCALE", "SHOW_TUTORIALS", "PROJECT_TYPE",
	} {
		t.Setenv("ADMIN_SHELL_"+name, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	clearOverlay(t)
	configPath := writeConfig(t, `
server:
  http_addr: "0.0.0.0:8080"
  shutdown_timeout: "30s"

database:
  driver: "sqlite3"
  path: "./test.db"

auth:
  jwt_secret: "`+testSecret+`"
  session_ttl: "12h"
  secure_cookies: true

telemetry:
  endpoint: "http://localhost:9999/track"
  timeout: "2s"

plugins:
  dir: "./plugins"
  disabled:
    - "documentation"

i18n:
  locale: "fr"

tracing:
  enabled: true
  endpoint: "localhost:4318"
  insecure: true
  sample_ratio: 0.5

logging:
  level: "debug"
  format: "json"

shell:
  show_tutorials: true
  project_type: "EE"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != "0.0.0.0:8080" {
		t.Errorf("Server.HTTPAddr = %q", cfg.Server.HTTPAddr)
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Database.Driver != "sqlite3" || cfg.Database.Path != "./test.db" {
		t.Errorf("Database = %+v", cfg.Database)
	}
	if cfg.Auth.SessionTTL != 12*time.Hour || !cfg.Auth.SecureCookies {
		t.Errorf("Auth = %+v", cfg.Auth)
	}
	if cfg.Telemetry.Timeout != 2*time.Second {
		t.Errorf("Telemetry.Timeout = %v", cfg.Telemetry.Timeout)
	}
	if len(cfg.Plugins.Disabled) != 1 || cfg.Plugins.Disabled[0] != "documentation" {
		t.Errorf("Plugins.Disabled = %v", cfg.Plugins.Disabled)
	}
	if cfg.I18n.Locale != "fr" {
		t.Errorf("I18n.Locale = %q", cfg.I18n.Locale)
	}
	if !cfg.Tracing.Enabled || cfg.Tracing.SampleRatio != 0.5 || cfg.Tracing.ServiceName != "admin-shell" {
		t.Errorf("Tracing = %+v", cfg.Tracing)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if !cfg.Shell.ShowTutorials || cfg.Shell.ProjectType != "EE" {
		t.Errorf("Shell = %+v", cfg.Shell)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearOverlay(t)
	t.Setenv("ADMIN_SHELL_JWT_SECRET", testSecret)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.HTTPAddr != ":1337" {
		t.Errorf("Server.HTTPAddr = %q", cfg.Server.HTTPAddr)
	}
	if cfg.Telemetry.Endpoint != "https://analytics.strapi.io/track" {
		t.Errorf("Telemetry.Endpoint = %q", cfg.Telemetry.Endpoint)
	}
	if cfg.Telemetry.Timeout != 5*time.Second {
		t.Errorf("Telemetry.Timeout = %v", cfg.Telemetry.Timeout)
	}
	if cfg.Auth.SessionTTL != 7*24*time.Hour {
		t.Errorf("Auth.SessionTTL = %v", cfg.Auth.SessionTTL)
	}
	if cfg.Shell.ProjectType != DefaultProjectType || cfg.Shell.ShowTutorials {
		t.Errorf("Shell = %+v", cfg.Shell)
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	clearOverlay(t)
	t.Setenv("TEST_SECRET_VALUE", testSecret)
	t.Setenv("TEST_DB_PATH", "/var/lib/admin.db")

	configPath := writeConfig(t, `
database:
  path: "${TEST_DB_PATH}"
auth:
  jwt_secret: "${TEST_SECRET_VALUE}"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Auth.JWTSecret != testSecret {
		t.Errorf("Auth.JWTSecret = %q", cfg.Auth.JWTSecret)
	}
	if cfg.Database.Path != "/var/lib/admin.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
}

func TestLoad_EnvOverlay(t *testing.T) {
	tests := []struct {
		name          string
		tutorials     string
		fileTutorials bool
		want          bool
	}{
		{"exact true", "true", false, true},
		{"other values are false", "1", true, false},
		{"TRUE is false", "TRUE", false, false},
		{"unset keeps file value", "", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearOverlay(t)
			t.Setenv("ADMIN_SHELL_JWT_SECRET", testSecret)
			t.Setenv("ADMIN_SHELL_SHOW_TUTORIALS", tt.tutorials)

			content := "shell:\n  show_tutorials: false\n"
			if tt.fileTutorials {
				content = "shell:\n  show_tutorials: true\n"
			}
			cfg, err := Load(writeConfig(t, content))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Shell.ShowTutorials != tt.want {
				t.Errorf("ShowTutorials = %v, want %v", cfg.Shell.ShowTutorials, tt.want)
			}
		})
	}

	t.Run("project type and addr", func(t *testing.T) {
		clearOverlay(t)
		t.Setenv("ADMIN_SHELL_JWT_SECRET", testSecret)
		t.Setenv("ADMIN_SHELL_PROJECT_TYPE", "Enterprise")
		t.Setenv("ADMIN_SHELL_HTTP_ADDR", "127.0.0.1:9000")
		t.Setenv("ADMIN_SHELL_LOCALE", "fr")

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Shell.ProjectType != "Enterprise" {
			t.Errorf("ProjectType = %q", cfg.Shell.ProjectType)
		}
		if cfg.Server.HTTPAddr != "127.0.0.1:9000" {
			t.Errorf("HTTPAddr = %q", cfg.Server.HTTPAddr)
		}
		if cfg.I18n.Locale != "fr" {
			t.Errorf("Locale = %q", cfg.I18n.Locale)
		}
	})
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"short secret", "auth:\n  jwt_secret: short\n", "jwt_secret"},
		{"bad driver", "auth:\n  jwt_secret: " + testSecret + "\ndatabase:\n  driver: postgres\n", "database.driver"},
		{"empty path", "auth:\n  jwt_secret: " + testSecret + "\ndatabase:\n  path: \"\"\n", "database.path"},
		{"bad duration", "auth:\n  jwt_secret: " + testSecret + "\n  session_ttl: forever\n", "session_ttl"},
		{"tracing without endpoint", "auth:\n  jwt_secret: " + testSecret + "\ntracing:\n  enabled: true\n", "tracing.endpoint"},
		{"bad ratio", "auth:\n  jwt_secret: " + testSecret + "\ntracing:\n  sample_ratio: 2\n", "sample_ratio"},
		{"bad log format", "auth:\n  jwt_secret: " + testSecret + "\nlogging:\n  format: xml\n", "logging.format"},
		{"bad yaml", "server: [", "parsing config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearOverlay(t)
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		if err == nil {
			t.Fatal("expected error")
		}
	})
}
