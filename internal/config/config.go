package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	GinMode             string
	StoreDriver         string
	StoreDSN            string
	PreferenceRetention time.Duration
	AllowedOrigins      []string
	TypewriterInterval  time.Duration
	TypewriterPause     time.Duration
	ResumePath          string
	StaticDir           string
	LogLevel            string
	LogFormat           string
}

// Load reads .env (if present) and the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, falling back to defaults for unset
// or unparsable values.
func FromEnv(getenv func(string) string) *Config {
	get := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}
	dur := func(key string, def time.Duration) time.Duration {
		v := getenv(key)
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration, using default", "key", key, "value", v, "default", def)
			return def
		}
		return d
	}

	driver := get("STORE_DRIVER", "sqlite")
	dsn := get("STORE_DSN", "")
	if dsn == "" {
		switch driver {
		case "sqlite":
			dsn = "portfolio.db"
		case "redis":
			dsn = get("REDIS_ADDR", "localhost:6379")
		}
	}

	return &Config{
		Port:                get("PORT", "8080"),
		GinMode:             get("GIN_MODE", "debug"),
		StoreDriver:         driver,
		StoreDSN:            dsn,
		PreferenceRetention: dur("PREFERENCE_RETENTION", 365*24*time.Hour),
		AllowedOrigins:      splitList(getenv("ALLOWED_ORIGINS")),
		TypewriterInterval:  dur("TYPEWRITER_INTERVAL", 50*time.Millisecond),
		TypewriterPause:     dur("TYPEWRITER_PAUSE", 1500*time.Millisecond),
		ResumePath:          get("RESUME_PATH", "./static/resume.pdf"),
		StaticDir:           get("STATIC_DIR", "./static"),
		LogLevel:            get("LOG_LEVEL", "info"),
		LogFormat:           get("LOG_FORMAT", "text"),
	}
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
