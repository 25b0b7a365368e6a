// ABOUTME: Configuration loading and parsing for admin-shell
// ABOUTME: YAML with ${VAR} expansion, ADMIN_SHELL_* env overlay, duration parsing and validation

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultProjectType is the build-type tag sent with analytics events.
const DefaultProjectType = "Community"

// Config represents the complete admin-shell configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Plugins   PluginsConfig   `yaml:"plugins"`
	I18n      I18nConfig      `yaml:"i18n"`
	Tracing   TracingConfig   `yaml:"tracing"`
	Logging   LoggingConfig   `yaml:"logging"`
	Shell     ShellConfig     `yaml:"shell"`
}

// ServerConfig holds the HTTP listener configuration
type ServerConfig struct {
	HTTPAddr        string        `yaml:"http_addr"`
	ShutdownTimeout time.Duration `yaml:"-"`

	ShutdownTimeoutRaw string `yaml:"shutdown_timeout"`
}

// DatabaseConfig selects the SQLite driver and file
type DatabaseConfig struct {
	// Driver is "sqlite" (modernc, pure Go) or "sqlite3" (mattn, cgo).
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// AuthConfig holds console session configuration
type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	SessionTTL    time.Duration `yaml:"-"`
	SecureCookies bool          `yaml:"secure_cookies"`

	SessionTTLRaw string `yaml:"session_ttl"`
}

// TelemetryConfig holds analytics endpoint configuration
type TelemetryConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"-"`
	// Disabled opts the installation out regardless of its stored identity.
	Disabled bool `yaml:"disabled"`

	TimeoutRaw string `yaml:"timeout"`
}

// PluginsConfig controls the plugin loader
type PluginsConfig struct {
	Dir          string   `yaml:"dir"`
	SkipBuiltins bool     `yaml:"skip_builtins"`
	Disabled     []string `yaml:"disabled"`
}

// I18nConfig selects the console locale
type I18nConfig struct {
	Locale string `yaml:"locale"`
}

// TracingConfig holds OpenTelemetry exporter configuration
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ShellConfig holds the shell's startup flags
type ShellConfig struct {
	ShowTutorials bool   `yaml:"show_tutorials"`
	ProjectType   string `yaml:"project_type"`
	Title         string `yaml:"title"`
}

// envOverlay lists the variables read on top of the file. Empty means unset.
type envOverlay struct {
	HTTPAddr      string `env:"HTTP_ADDR"`
	DatabasePath  string `env:"DATABASE_PATH"`
	JWTSecret     string `env:"JWT_SECRET"`
	LogLevel      string `env:"LOG_LEVEL"`
	Locale        string `env:"LOCALE"`
	ShowTutorials string `env:"SHOW_TUTORIALS"`
	ProjectType   string `env:"PROJECT_TYPE"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{HTTPAddr: ":1337", ShutdownTimeoutRaw: "10s"},
		Database: DatabaseConfig{Driver: "sqlite", Path: "./admin-shell.db"},
		Auth:     AuthConfig{SessionTTLRaw: "168h"},
		Telemetry: TelemetryConfig{
			Endpoint:   "https://analytics.strapi.io/track",
			TimeoutRaw: "5s",
		},
		I18n:    I18nConfig{Locale: "en"},
		Tracing: TracingConfig{ServiceName: "admin-shell", SampleRatio: 1},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Shell:   ShellConfig{ProjectType: DefaultProjectType, Title: "Administration panel"},
	}
}

// Load reads a configuration file from the given path and returns a parsed Config.
// An empty path starts from Default. Environment variables in the format
// ${VAR_NAME} are expanded, then ADMIN_SHELL_* variables are overlaid.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		expandedData := expandEnvVars(string(data))
		if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if cfg.Shell.ProjectType == "" {
		cfg.Shell.ProjectType = DefaultProjectType
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

func applyEnv(cfg *Config) error {
	var o envOverlay
	if err := env.ParseWithOptions(&o, env.Options{Prefix: "ADMIN_SHELL_"}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if o.HTTPAddr != "" {
		cfg.Server.HTTPAddr = o.HTTPAddr
	}
	if o.DatabasePath != "" {
		cfg.Database.Path = o.DatabasePath
	}
	if o.JWTSecret != "" {
		cfg.Auth.JWTSecret = o.JWTSecret
	}
	if o.LogLevel != "" {
		cfg.Logging.Level = o.LogLevel
	}
	if o.Locale != "" {
		cfg.I18n.Locale = o.Locale
	}
	// Only the exact string "true" turns tutorials on.
	if o.ShowTutorials != "" {
		cfg.Shell.ShowTutorials = o.ShowTutorials == "true"
	}
	if o.ProjectType != "" {
		cfg.Shell.ProjectType = o.ProjectType
	}
	return nil
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}

	switch c.Database.Driver {
	case "", "sqlite", "sqlite3":
	default:
		return fmt.Errorf("database.driver must be sqlite or sqlite3, got %q", c.Database.Driver)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters")
	}

	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return fmt.Errorf("tracing.endpoint is required when tracing is enabled")
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing.sample_ratio must be between 0 and 1")
	}

	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Server.ShutdownTimeoutRaw != "" {
		cfg.Server.ShutdownTimeout, err = time.ParseDuration(cfg.Server.ShutdownTimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing shutdown_timeout %q: %w", cfg.Server.ShutdownTimeoutRaw, err)
		}
	}

	if cfg.Auth.SessionTTLRaw != "" {
		cfg.Auth.SessionTTL, err = time.ParseDuration(cfg.Auth.SessionTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing session_ttl %q: %w", cfg.Auth.SessionTTLRaw, err)
		}
	}

	if cfg.Telemetry.TimeoutRaw != "" {
		cfg.Telemetry.Timeout, err = time.ParseDuration(cfg.Telemetry.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing telemetry timeout %q: %w", cfg.Telemetry.TimeoutRaw, err)
		}
	}

	return nil
}
