// Package asset builds profile-picture URLs for resolved identifiers.
package asset

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultBaseURL = "https://graph.facebook.com"
	DefaultWidth   = 5000
)

// Config is the picture-service part of the process configuration.
type Config struct {
	BaseURL string
	Width   int
	Token   string
}

// BuildURL returns <base>/<id>/picture?width=<w>, with the token appended
// as the last query parameter when one is configured.
func BuildURL(id string, cfg Config) string {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	width := cfg.Width
	if width <= 0 {
		width = DefaultWidth
	}

	u := fmt.Sprintf("%s/%s/picture?width=%d", strings.TrimRight(base, "/"), id, width)
	if cfg.Token != "" {
		u += "&access_token=" + url.QueryEscape(cfg.Token)
	}
	return u
}
