package config

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Enabled reports whether Google sign-in has credentials to work with.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

type Config struct {
	DB_URL      string
	SQLitePath  string
	Port        string
	JWTSecret   string
	Environment string
	LogLevel    slog.Level
	FrontendURL string
	CorsConfig  cors.Options
	Google      GoogleConfig
}

// IsProduction reports whether cookies should be marked Secure / SameSite=None.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

var Envs = initConfig()

func initConfig() Config {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		slog.Debug("no env file found", "file", envFile)
	} else {
		slog.Info("loaded env file", "file", envFile)
	}

	port := getEnv("PORT", "44000")
	return Config{
		DB_URL:      getEnv("DB_URL", ""),
		SQLitePath:  getEnv("SQLITE_PATH", "accountabilabuddy.sqlite"),
		Port:        port,
		JWTSecret:   getEnv("JWT_SECRET", "not-so-secret-now-is-it?"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    parseLevel(getEnv("LOG_LEVEL", "info")),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		CorsConfig:  CorsConfig(splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"))),
		Google: GoogleConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:"+port+"/api/auth/google/callback"),
		},
	}
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func CorsConfig(origins []string) cors.Options {
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
}
