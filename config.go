package client

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvAPIKey    = "NUMOPAY_API_KEY"
	EnvAPISecret = "NUMOPAY_API_SECRET"
	EnvBaseURL   = "NUMOPAY_BASE_URL"
)

// Config holds the settings needed to construct a Client.
type Config struct {
	APIKey    string
	APISecret string
	BaseURL   string
}

// LoadDotEnv loads variables from the given .env files (default ".env") into
// the process environment without overriding values that are already set.
// Missing files are ignored.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ConfigFromEnv reads the client configuration from the environment. BaseURL
// falls back to DefaultBaseURL.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		APIKey:    os.Getenv(EnvAPIKey),
		APISecret: os.Getenv(EnvAPISecret),
		BaseURL:   os.Getenv(EnvBaseURL),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return cfg, &AuthError{Message: "set " + EnvAPIKey + " and " + EnvAPISecret}
	}
	return cfg, nil
}

// NewFromEnv builds a Client from ConfigFromEnv. Options are applied after the
// configured base URL, so they take precedence.
func NewFromEnv(opts ...Option) (*Client, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return New(cfg.APIKey, cfg.APISecret, append([]Option{WithBaseURL(cfg.BaseURL)}, opts...)...)
}
