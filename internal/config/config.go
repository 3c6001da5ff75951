package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	ErrMissingAPIKey = errors.New("YouTube API key is required")
)

// Config holds the application configuration
type Config struct {
	YouTubeAPIKey  string
	APIBaseURL     string
	DBPath         string
	Port           string
	AllowedOrigins []string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		YouTubeAPIKey:  getEnv("YT_API_KEY", os.Getenv("YOUTUBE_API_KEY")),
		APIBaseURL:     os.Getenv("YOUTUBE_API_BASE_URL"),
		DBPath:         os.Getenv("DB_PATH"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.YouTubeAPIKey == "" {
		return fmt.Errorf("%w: set YT_API_KEY or YOUTUBE_API_KEY", ErrMissingAPIKey)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
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
