// Package config loads the service configuration from the environment. A
// .env file in the working directory is read first when present; variables
// already set in the environment take precedence over it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"moodify/pkg/recommend"
	"moodify/pkg/spotify"
)

// Config holds every tunable of the service.
type Config struct {
	Addr string

	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyTokenURL     string
	SpotifyAPIURL       string
	SpotifyTimeout      time.Duration
	FallbackSeedTrack   string
	DefaultLimit        int

	// SessionSecret verifies session cookies issued by the login service.
	SessionSecret string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LogLevel string
	LogFile  string
}

// Load reads .env (if any) and the environment. It fails only on values that
// are present but malformed.
func Load() (*Config, error) {
	// A missing .env file is normal in production.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Addr:                getEnv("ADDR", ":4000"),
		SpotifyClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
		SpotifyClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
		SpotifyTokenURL:     os.Getenv("SPOTIFY_TOKEN_URL"),
		SpotifyAPIURL:       getEnv("SPOTIFY_API_URL", spotify.DefaultBaseURL),
		FallbackSeedTrack:   getEnvAllowEmpty("SPOTIFY_FALLBACK_TRACK", recommend.DefaultSeedTrack),
		SessionSecret:       os.Getenv("SESSION_SECRET"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFile:             os.Getenv("LOG_FILE"),
	}
	var err error
	if cfg.SpotifyTimeout, err = getDuration("SPOTIFY_HTTP_TIMEOUT", spotify.DefaultTimeout); err != nil {
		return nil, err
	}
	if cfg.DefaultLimit, err = getInt("DEFAULT_LIMIT", recommend.DefaultLimit); err != nil {
		return nil, err
	}
	if cfg.DefaultLimit < 1 || cfg.DefaultLimit > recommend.MaxLimit {
		return nil, fmt.Errorf("config: DEFAULT_LIMIT must be between 1 and %d", recommend.MaxLimit)
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	return cfg, nil
}

// HasSpotifyCredentials reports whether the client-credentials pair is set.
func (c *Config) HasSpotifyCredentials() bool {
	return c.SpotifyClientID != "" && c.SpotifyClientSecret != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// getEnvAllowEmpty is getEnv for keys where an explicit empty value means
// "disabled".
func getEnvAllowEmpty(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
