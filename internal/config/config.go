// Package config handles application configuration via environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configurable values for the service.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string `env:"QRSTUDIO_ADDR" envDefault:":8080"`

	// GinMode selects gin's runtime mode (debug/release/test).
	GinMode string `env:"QRSTUDIO_GIN_MODE" envDefault:"release"`

	// FallbackPayload is the neutral, always-scannable link encoded whenever
	// the active content cannot produce a well-formed payload.
	FallbackPayload string `env:"QRSTUDIO_FALLBACK_PAYLOAD" envDefault:"https://qr.mhalong.com"`

	// LogoProbeTimeout bounds how long a logo reference may take to fetch
	// and decode before it is reported as timed out.
	LogoProbeTimeout time.Duration `env:"QRSTUDIO_LOGO_TIMEOUT" envDefault:"10s"`

	// MaxCaptionRunes bounds the frame caption length.
	MaxCaptionRunes int `env:"QRSTUDIO_MAX_CAPTION" envDefault:"40"`

	// MaxPayloadBytes caps the size of the string handed to the QR encoder.
	MaxPayloadBytes int `env:"QRSTUDIO_MAX_PAYLOAD" envDefault:"4096"`
}

// Load populates a Config from environment variables, falling back to the
// defaults declared on the struct tags.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}
	return cfg, nil
}
