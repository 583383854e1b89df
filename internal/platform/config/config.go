package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type HTTPConfig struct {
	Addr string
}

type YouTubeConfig struct {
	APIKey  string
	BaseURL string // empty means the public Data API endpoint
}

type AppConfig struct {
	ServiceName string
	LogLevel    string
	HTTP        HTTPConfig
	DatabaseURL string
	YouTube     YouTubeConfig

	// Optional integrations; empty disables the feature.
	RedisURL  string
	NATSURL   string
	JWTSecret []byte

	CacheTTL time.Duration
}

func Load() (AppConfig, error) {
	cfg := AppConfig{
		ServiceName: envStr("SERVICE_NAME", "courses"),
		LogLevel:    envStr("LOG_LEVEL", "info"),
		HTTP: HTTPConfig{
			Addr: envStr("HTTP_ADDR", ":8080"),
		},
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		YouTube: YouTubeConfig{
			APIKey:  strings.TrimSpace(os.Getenv("YOUTUBE_API_KEY")),
			BaseURL: strings.TrimSpace(os.Getenv("YOUTUBE_API_BASE_URL")),
		},
		RedisURL:  strings.TrimSpace(os.Getenv("REDIS_URL")),
		NATSURL:   strings.TrimSpace(os.Getenv("NATS_URL")),
		JWTSecret: []byte(strings.TrimSpace(os.Getenv("JWT_SECRET"))),
		CacheTTL:  envDuration("METADATA_CACHE_TTL", 6*time.Hour),
	}

	if cfg.DatabaseURL == "" {
		return AppConfig{}, errors.New("DATABASE_URL is required")
	}
	if cfg.YouTube.APIKey == "" {
		return AppConfig{}, errors.New("YOUTUBE_API_KEY is required")
	}
	return cfg, nil
}

// AuthEnabled reports whether bearer auth should be enforced.
func (c AppConfig) AuthEnabled() bool {
	return len(c.JWTSecret) > 0
}

func envStr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
		return time.Duration(sec) * time.Second
	}
	return fallback
}
