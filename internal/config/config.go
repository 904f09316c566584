// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name, e.g. IMAGE_MCP_LOG_LEVEL.
const Prefix = "IMAGE_MCP"

// Config holds the server configuration.
type Config struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Crop UI geometry, in screen units.
	HandleHitSize float64 `envconfig:"HANDLE_HIT_SIZE" default:"28"`
	HandleSize    float64 `envconfig:"HANDLE_SIZE" default:"14"`

	// Preview rendering.
	PreviewWidth int     `envconfig:"PREVIEW_WIDTH" default:"1024"`
	OverlayDim   float64 `envconfig:"OVERLAY_DIM" default:"0.5"`
	BorderColor  string  `envconfig:"BORDER_COLOR" default:"#FFFFFF"`
	HandleColor  string  `envconfig:"HANDLE_COLOR" default:"#FFFFFF"`

	// Output encoding.
	JPEGQuality  int     `envconfig:"JPEG_QUALITY" default:"90"`
	WebPQuality  float32 `envconfig:"WEBP_QUALITY" default:"90"`
	WebPLossless bool    `envconfig:"WEBP_LOSSLESS" default:"false"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no variables are set.
func Default() *Config {
	return &Config{
		LogLevel:      "info",
		HandleHitSize: 28,
		HandleSize:    14,
		PreviewWidth:  1024,
		OverlayDim:    0.5,
		BorderColor:   "#FFFFFF",
		HandleColor:   "#FFFFFF",
		JPEGQuality:   90,
		WebPQuality:   90,
	}
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", c.LogLevel)
	}

	if c.HandleHitSize <= 0 {
		return fmt.Errorf("handle_hit_size must be positive")
	}

	if c.HandleSize <= 0 {
		return fmt.Errorf("handle_size must be positive")
	}

	if c.HandleSize > c.HandleHitSize {
		return fmt.Errorf("handle_size (%g) must not exceed handle_hit_size (%g)", c.HandleSize, c.HandleHitSize)
	}

	if c.PreviewWidth < 1 {
		return fmt.Errorf("preview_width must be positive")
	}

	if c.OverlayDim < 0 || c.OverlayDim > 1 {
		return fmt.Errorf("overlay_dim must be between 0 and 1")
	}

	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be between 1 and 100")
	}

	if c.WebPQuality < 0 || c.WebPQuality > 100 {
		return fmt.Errorf("webp_quality must be between 0 and 100")
	}

	return nil
}
