package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAPIBaseURL   = "http://localhost:8080/api"
	defaultAuthBaseURL  = "http://localhost:8080/auth-api"
	defaultHTTPTimeout  = "10s"
	defaultAddr         = ":8080"
	defaultDatabaseURL  = "file::memory:?cache=shared"
	defaultJWTSecret    = "change-me-jwt-secret"
	defaultJWTAccessTTL = "15m"
	defaultRefreshTTL   = "168h"
	defaultPepper       = "change-me-refresh-pepper"
)

// Client holds everything the booking client needs to reach the backend.
type Client struct {
	APIBaseURL  string
	AuthBaseURL string
	HTTPTimeout time.Duration
}

// Server holds the dev backend runtime settings.
type Server struct {
	Addr               string
	DatabaseURL        string
	JWTSecret          string
	JWTAccessTTL       time.Duration
	RefreshTTL         time.Duration
	RefreshTokenPepper string
}

// LoadClient reads client settings from the environment, after loading .env
// if one is present.
func LoadClient() (*Client, error) {
	_ = godotenv.Load()

	cfg := &Client{
		APIBaseURL:  strings.TrimRight(getEnv("API_BASE_URL", defaultAPIBaseURL), "/"),
		AuthBaseURL: strings.TrimRight(getEnv("AUTH_BASE_URL", defaultAuthBaseURL), "/"),
	}

	var err error
	cfg.HTTPTimeout, err = parseDurationEnv("HTTP_TIMEOUT", defaultHTTPTimeout)
	if err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("HTTP_TIMEOUT must be > 0")
	}
	return cfg, nil
}

// LoadServer reads dev backend settings from the environment, after loading
// .env if one is present.
func LoadServer() (*Server, error) {
	_ = godotenv.Load()

	cfg := &Server{
		Addr:               getEnv("ADDR", defaultAddr),
		DatabaseURL:        getEnv("DATABASE_URL", defaultDatabaseURL),
		JWTSecret:          strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret)),
		RefreshTokenPepper: strings.TrimSpace(getEnv("REFRESH_TOKEN_PEPPER", defaultPepper)),
	}

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.RefreshTTL, err = parseDurationEnv("REFRESH_TTL", defaultRefreshTTL)
	if err != nil {
		return nil, err
	}

	if cfg.JWTAccessTTL <= 0 {
		return nil, fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.RefreshTTL <= 0 {
		return nil, fmt.Errorf("REFRESH_TTL must be > 0")
	}
	return cfg, nil
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
