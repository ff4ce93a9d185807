package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/portal-live/internal/pkg/validator"
	"github.com/joho/godotenv"
)

var appEnvs = []string{"development", "staging", "production", "test"}

type Config struct {
	App    AppConfig
	Portal PortalConfig
	Live   LiveConfig
	JWT    JWTConfig
	CORS   CORSConfig
	Page   PageConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// PortalConfig holds how the employee portal backend is reached
type PortalConfig struct {
	BaseURL        string
	AccessToken    string
	SessionID      string
	CSRFToken      string
	RequestTimeout time.Duration
}

// LiveConfig holds live update timings
type LiveConfig struct {
	PollInterval       time.Duration
	HighlightDuration  time.Duration
	IndicatorFadeDelay time.Duration
	AlertTTL           time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type PageConfig struct {
	Cards []string
}

// Load reads .env when present and builds the configuration from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*Config, error) {
	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8090"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// Portal configuration
	requestTimeout, err := getEnvDuration("PORTAL_REQUEST_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	config.Portal = PortalConfig{
		BaseURL:        getEnv("PORTAL_BASE_URL", "http://localhost:8000/employee-portal/api/"),
		AccessToken:    getEnv("PORTAL_ACCESS_TOKEN", ""),
		SessionID:      getEnv("PORTAL_SESSION_ID", ""),
		CSRFToken:      getEnv("PORTAL_CSRF_TOKEN", ""),
		RequestTimeout: requestTimeout,
	}

	// Live update configuration
	pollInterval, err := getEnvDuration("POLL_INTERVAL", "30s")
	if err != nil {
		return nil, err
	}
	highlight, err := getEnvDuration("HIGHLIGHT_DURATION", "1s")
	if err != nil {
		return nil, err
	}
	fadeDelay, err := getEnvDuration("INDICATOR_FADE_DELAY", "2s")
	if err != nil {
		return nil, err
	}
	alertTTL, err := getEnvDuration("ALERT_TTL", "5s")
	if err != nil {
		return nil, err
	}

	config.Live = LiveConfig{
		PollInterval:       pollInterval,
		HighlightDuration:  highlight,
		IndicatorFadeDelay: fadeDelay,
		AlertTTL:           alertTTL,
	}

	// JWT configuration
	jwtAccessExpiration, err := getEnvDuration("JWT_ACCESS_EXPIRATION_TIME", "1h")
	if err != nil {
		return nil, err
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: jwtAccessExpiration,
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	config.Page = PageConfig{
		Cards: getEnvSlice("PAGE_CARDS", "hours,leave,requests,attendance"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("APP_PORT must be between 1 and 65535")
	}
	if !validator.IsInSlice(c.App.Env, appEnvs) {
		return fmt.Errorf("APP_ENV must be one of %s", strings.Join(appEnvs, ", "))
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if validator.IsEmpty(c.JWT.Secret) {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.JWT.AccessExpiration <= 0 {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME must be positive")
	}

	u, err := url.Parse(c.Portal.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("PORTAL_BASE_URL must be an absolute URL")
	}
	if c.Portal.RequestTimeout <= 0 {
		return fmt.Errorf("PORTAL_REQUEST_TIMEOUT must be positive")
	}

	if c.Live.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive")
	}
	if c.Live.HighlightDuration <= 0 || c.Live.IndicatorFadeDelay <= 0 || c.Live.AlertTTL <= 0 {
		return fmt.Errorf("HIGHLIGHT_DURATION, INDICATOR_FADE_DELAY and ALERT_TTL must be positive")
	}
	return nil
}

// SlogLevel parses LOG_LEVEL
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return level, nil
}

// Addr returns the listen address of the host
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(key, fallback string) []string {
	value := getEnv(key, fallback)
	if value == "" {
		return []string{}
	}

	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
