package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/2389/admin-shell/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestColorHandler(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	logger := setupLogger(config.LoggingConfig{Level: "info"}, &buf)

	logger.Debug("hidden")
	logger.With("component", "shell").WithGroup("req").Info("rendered", "path", "/me")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record written at info level: %q", out)
	}
	for _, want := range []string{"INF rendered", " component=shell", "req.path=/me"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := setupLogger(config.LoggingConfig{Level: "debug", Format: "json"}, &buf)
	logger.Debug("hello", "k", 1)

	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("expected JSON output, got %q", buf.String())
	}
}

func TestGetConfigPath_Env(t *testing.T) {
	t.Setenv("ADMIN_SHELL_CONFIG", "/etc/admin-shell.yaml")
	if got := getConfigPath(); got != "/etc/admin-shell.yaml" {
		t.Errorf("getConfigPath() = %q", got)
	}
}

func TestGetConfigPath_MissingFile(t *testing.T) {
	t.Setenv("ADMIN_SHELL_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if got := getConfigPath(); got != "" {
		t.Errorf("getConfigPath() = %q, want empty", got)
	}
}
