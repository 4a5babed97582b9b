// Package config holds library-level configuration.
package config

import (
	"github.com/happy-sea-fox/sail/core"
	apperrors "github.com/happy-sea-fox/sail/errors"
)

// Config controls context construction and the high-level load helpers.
type Config struct {
	// CodecInfoDir is an optional directory scanned for *.codec.info
	// declarations of externally registered codecs. Empty disables the
	// scan; the built-in codecs are always registered.
	CodecInfoDir string

	// DefaultOutputPixelFormat is the pixel format high-level loads
	// convert to when load options do not request one.
	DefaultOutputPixelFormat core.PixelFormat

	// LogLevel is advisory for logger adapters: debug, info, warn, error.
	LogLevel string
}

// Default returns the configuration used when none is supplied.
func Default() *Config {
	return &Config{
		DefaultOutputPixelFormat: core.BPP32RGBA,
		LogLevel:                 "info",
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	const op = "config.validate"

	if c.DefaultOutputPixelFormat == core.PixelFormatUnknown {
		return apperrors.Newf(apperrors.CodeInvalidArgument, op, "default output pixel format is not set")
	}
	if _, err := core.BitsPerPixel(c.DefaultOutputPixelFormat); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, op, err)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return apperrors.Newf(apperrors.CodeInvalidArgument, op, "unknown log level %q", c.LogLevel)
	}
	return nil
}
