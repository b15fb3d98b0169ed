package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wozniakbe/exhibit-prefs/prefs"
)

// Jar formats for the local CLI commands.
const (
	JarFormatNetscape = "netscape"
	JarFormatSQLite   = "sqlite"
)

type Config struct {
	ServerPort      string `yaml:"server_port"`
	JWTSecret       string `yaml:"jwt_secret"`
	JWTIssuer       string `yaml:"jwt_issuer"`
	CORSAllowOrigin string `yaml:"cors_allow_origin"`
	LogLevel        string `yaml:"log_level"`
	DevBypassAuth   bool   `yaml:"dev_bypass_auth"`

	CookieTTLDays  int    `yaml:"cookie_ttl_days"`
	CookieSecure   bool   `yaml:"cookie_secure"`
	CookieSameSite string `yaml:"cookie_same_site"`

	JarPath   string `yaml:"jar_path"`
	JarFormat string `yaml:"jar_format"`
	JarDomain string `yaml:"jar_domain"`
}

func defaultConfig() Config {
	return Config{
		ServerPort:      "8080",
		CORSAllowOrigin: "*",
		LogLevel:        "info",
		CookieTTLDays:   prefs.DefaultTTLDays,
		CookieSameSite:  "lax",
		JarPath:         "cookies.txt",
		JarFormat:       JarFormatNetscape,
		JarDomain:       "localhost",
	}
}

// LoadConfig builds the configuration from defaults, then the YAML file at
// path (if path is non-empty), then the environment.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.ServerPort = envOrDefault("SERVER_PORT", cfg.ServerPort)
	cfg.JWTSecret = envOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTIssuer = envOrDefault("JWT_ISSUER", cfg.JWTIssuer)
	cfg.CORSAllowOrigin = envOrDefault("CORS_ALLOW_ORIGIN", cfg.CORSAllowOrigin)
	cfg.LogLevel = envOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.DevBypassAuth = envBool("DEV_BYPASS_AUTH", cfg.DevBypassAuth)
	cfg.CookieSecure = envBool("COOKIE_SECURE", cfg.CookieSecure)
	cfg.CookieSameSite = envOrDefault("COOKIE_SAME_SITE", cfg.CookieSameSite)
	cfg.JarPath = envOrDefault("PREFS_JAR_PATH", cfg.JarPath)
	cfg.JarFormat = envOrDefault("PREFS_JAR_FORMAT", cfg.JarFormat)
	cfg.JarDomain = envOrDefault("PREFS_JAR_DOMAIN", cfg.JarDomain)

	if v := os.Getenv("COOKIE_TTL_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("COOKIE_TTL_DAYS: %w", err)
		}
		cfg.CookieTTLDays = days
	}

	if cfg.CookieTTLDays <= 0 {
		return Config{}, fmt.Errorf("cookie TTL must be positive, got %d days", cfg.CookieTTLDays)
	}
	if _, err := parseSameSite(cfg.CookieSameSite); err != nil {
		return Config{}, err
	}
	switch cfg.JarFormat {
	case JarFormatNetscape, JarFormatSQLite:
	default:
		return Config{}, fmt.Errorf("unknown jar format %q", cfg.JarFormat)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return strings.EqualFold(v, "true")
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseSameSite(s string) (http.SameSite, error) {
	switch strings.ToLower(s) {
	case "", "default":
		return http.SameSiteDefaultMode, nil
	case "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, fmt.Errorf("invalid SameSite value: %q", s)
	}
}
