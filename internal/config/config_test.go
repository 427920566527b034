package config

import (
	"log/slog"
	"net/http"
	"testing"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("BUDDY_TEST_KEY", "set")
	if got := getEnv("BUDDY_TEST_KEY", "fallback"); got != "set" {
		t.Errorf("getEnv() = %q, want %q", got, "set")
	}
	if got := getEnv("BUDDY_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("getEnv() = %q, want %q", got, "fallback")
	}
}

func TestInitConfig(t *testing.T) {
	t.Setenv("ENV_FILE", t.TempDir()+"/missing.env")
	t.Setenv("PORT", "9090")
	t.Setenv("DB_URL", "")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("GOOGLE_CLIENT_ID", "")

	cfg := initConfig()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.DB_URL != "" {
		t.Errorf("DB_URL = %q, want empty", cfg.DB_URL)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if got := cfg.CorsConfig.AllowedOrigins; len(got) != 2 || got[1] != "http://b.test" {
		t.Errorf("AllowedOrigins = %v", got)
	}
	if cfg.Google.Enabled() {
		t.Error("google sign-in should be disabled without credentials")
	}
	if cfg.Google.RedirectURL != "http://localhost:9090/api/auth/google/callback" {
		t.Errorf("RedirectURL = %q", cfg.Google.RedirectURL)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"chatty", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseLevel(tt.in); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCorsConfig(t *testing.T) {
	opts := CorsConfig([]string{"http://localhost:5173"})
	if !opts.AllowCredentials {
		t.Error("expected credentials to be allowed")
	}
	found := false
	for _, m := range opts.AllowedMethods {
		if m == http.MethodPatch {
			found = true
		}
	}
	if !found {
		t.Error("PATCH must be an allowed method")
	}
}
