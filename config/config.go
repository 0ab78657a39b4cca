// config.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Config holds runtime configuration for the app.
// It is built once at start and never mutated afterwards.
type Config struct {
	Port     string `validate:"required,numeric"`
	AppEnv   string `validate:"oneof=development production"`
	LogLevel string `validate:"oneof=debug info warn error"`

	// GraphToken is optional; when set it is passed through verbatim
	// as the access_token of every picture URL.
	GraphToken     string
	LookupBaseURL  string `validate:"required,url"`
	PictureBaseURL string `validate:"required,url"`
	PictureWidth   int    `validate:"gt=0"`
}

var validate = validator.New()

func Load() (*Config, error) {
	width, err := strconv.Atoi(getenv("PICTURE_WIDTH", "5000"))
	if err != nil {
		return nil, fmt.Errorf("PICTURE_WIDTH: %w", err)
	}

	cfg := &Config{
		Port:           getenv("PORT", "8080"),
		AppEnv:         getenv("APP_ENV", "production"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		GraphToken:     os.Getenv("FB_GRAPH_TOKEN"),
		LookupBaseURL:  getenv("LOOKUP_BASE_URL", "https://m.facebook.com"),
		PictureBaseURL: getenv("PICTURE_BASE_URL", "https://graph.facebook.com"),
		PictureWidth:   width,
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
