package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Alert modes.
const (
	AlertConsole = "console"
	AlertPrompt  = "prompt"
	AlertLog     = "log"
)

// Login failure presentations.
const (
	DetailExtract = "extract"
	DetailRaw     = "raw"
)

// Provider exposes configuration values to the rest of the application.
type Provider interface {
	GetBaseURL() string
	GetIncludeCredentials() bool
	GetLoginFailureDetail() string
	GetHTTPTimeout() time.Duration
	GetStorageDir() string
	GetAlertMode() string
	GetLang() string
}

// Config holds all configuration for the auth client.
type Config struct {
	BaseURL            string        `validate:"required,url"`
	LoginFailureDetail string        `validate:"oneof=extract raw"`
	HTTPTimeout        time.Duration `validate:"gte=0"`
	StorageDir         string        `validate:"required"`
	AlertMode          string        `validate:"oneof=console prompt log"`
	Lang               string        `validate:"required,bcp47_language_tag"`
	IncludeCredentials bool
}

var validate = validator.New()

// New loads configuration from a .env file (if present) and environment
// variables, applying defaults for anything unset.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		BaseURL:            getEnv("AUTH_BASE_URL", "http://localhost:8000"),
		LoginFailureDetail: getEnv("AUTH_LOGIN_FAILURE_DETAIL", DetailExtract),
		StorageDir:         getEnv("AUTH_STORAGE_DIR", defaultStorageDir()),
		AlertMode:          getEnv("AUTH_ALERT_MODE", AlertConsole),
		Lang:               getEnv("AUTH_LANG", "en"),
	}

	var err error
	if cfg.IncludeCredentials, err = strconv.ParseBool(getEnv("AUTH_INCLUDE_CREDENTIALS", "true")); err != nil {
		return nil, fmt.Errorf("invalid AUTH_INCLUDE_CREDENTIALS: %w", err)
	}
	if cfg.HTTPTimeout, err = time.ParseDuration(getEnv("AUTH_HTTP_TIMEOUT", "30s")); err != nil {
		return nil, fmt.Errorf("invalid AUTH_HTTP_TIMEOUT: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) GetBaseURL() string            { return c.BaseURL }
func (c *Config) GetIncludeCredentials() bool   { return c.IncludeCredentials }
func (c *Config) GetLoginFailureDetail() string { return c.LoginFailureDetail }
func (c *Config) GetHTTPTimeout() time.Duration { return c.HTTPTimeout }
func (c *Config) GetStorageDir() string         { return c.StorageDir }
func (c *Config) GetAlertMode() string          { return c.AlertMode }
func (c *Config) GetLang() string               { return c.Lang }

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func defaultStorageDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".authform")
	}
	return filepath.Join(dir, "authform")
}
