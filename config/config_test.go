package config

import (
	"log/slog"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.LogLevel != slog.LevelWarn {
		t.Errorf("LogLevel = %v, want WARN", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want text", cfg.LogFormat)
	}
	if cfg.LineWidth != 90 || cfg.Indent != 4 {
		t.Errorf("layout = %d/%d, want 90/4", cfg.LineWidth, cfg.Indent)
	}
	if cfg.Debug {
		t.Error("Debug should default to false")
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"STONEEND_LOG_LEVEL":  "debug",
		"STONEEND_LOG_FORMAT": "json",
		"STONEEND_LINE_WIDTH": "60",
		"STONEEND_INDENT":     "2",
		"STONEEND_DEBUG":      "true",
	})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.LogLevel != slog.LevelDebug || cfg.LogFormat != "json" {
		t.Errorf("logging = %v/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.LineWidth != 60 || cfg.Indent != 2 || !cfg.Debug {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadProcessEnv(t *testing.T) {
	t.Setenv("STONEEND_LINE_WIDTH", "72")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LineWidth != 72 {
		t.Errorf("LineWidth = %d, want 72", cfg.LineWidth)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		want    string
	}{
		{"bad int", map[string]string{"STONEEND_LINE_WIDTH": "wide"}, "parse env:"},
		{"bad level", map[string]string{"STONEEND_LOG_LEVEL": "loud"}, "parse env:"},
		{"bad format", map[string]string{"STONEEND_LOG_FORMAT": "xml"}, "text or json"},
		{"narrow", map[string]string{"STONEEND_LINE_WIDTH": "10"}, "at least 20"},
		{"deep indent", map[string]string{"STONEEND_INDENT": "60"}, "between 0 and 45"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.environ)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}
