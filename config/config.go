package config

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/Philipp01105/firelogger/formatter"
)

// Config holds all FireLogger settings
type Config struct {
	// Enabled is the master switch. When false no request is captured.
	Enabled bool `koanf:"enabled"`
	// Password, when set, must be matched by the client's auth header
	Password string `koanf:"password"`
	// HeaderPrefix starts the name of every emitted header
	HeaderPrefix string `koanf:"header_prefix"`
	// RecommendedClientVersion is compared with the announced client
	// version; a mismatch is only reported.
	RecommendedClientVersion string `koanf:"recommended_client_version"`
	// VersionCheck requires the X-FireLogger request header. When off,
	// every request is captured.
	VersionCheck bool `koanf:"version_check"`
	// PasswordCheck enables the password comparison
	PasswordCheck bool `koanf:"password_check"`
	// MaxPickleDepth bounds the nesting of logged values
	MaxPickleDepth int `koanf:"max_pickle_depth"`
	// Encoding is the IANA charset logged strings are assumed to be in
	Encoding string `koanf:"encoding"`
	// ErrorFiltering makes runtime warnings honor ErrorReporting
	ErrorFiltering bool `koanf:"error_filtering"`
	// ErrorReporting is the severity mask for runtime warnings
	ErrorReporting int `koanf:"error_reporting"`
	// DefaultLogger registers the default logger in every session
	DefaultLogger bool `koanf:"default_logger"`
	// ErrorHandler registers the error logger and records runtime warnings
	ErrorHandler bool `koanf:"error_handler"`
	// ExceptionHandler makes the middleware recover and record panics
	ExceptionHandler bool `koanf:"exception_handler"`
	// CoarseClock stamps records from a cached clock instead of time.Now
	CoarseClock bool `koanf:"coarse_clock"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Enabled:                  true,
		HeaderPrefix:             "FireLogger",
		RecommendedClientVersion: "0.8",
		VersionCheck:             true,
		PasswordCheck:            true,
		MaxPickleDepth:           10,
		Encoding:                 "UTF-8",
		ErrorFiltering:           true,
		ErrorReporting:           32767,
		DefaultLogger:            true,
		ErrorHandler:             true,
		ExceptionHandler:         true,
	}
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var err error
	if c.HeaderPrefix == "" {
		err = multierr.Append(err, errors.New("header_prefix must not be empty"))
	} else if strings.ContainsAny(c.HeaderPrefix, " \t\r\n:") {
		err = multierr.Append(err, fmt.Errorf("header_prefix %q is not a valid header token", c.HeaderPrefix))
	}
	if c.MaxPickleDepth < 0 {
		err = multierr.Append(err, fmt.Errorf("max_pickle_depth must be >= 0, got %d", c.MaxPickleDepth))
	}
	if c.ErrorReporting < 0 {
		err = multierr.Append(err, fmt.Errorf("error_reporting must be >= 0, got %d", c.ErrorReporting))
	}
	if _, encErr := formatter.NewNormalizer(c.Encoding); encErr != nil {
		err = multierr.Append(err, fmt.Errorf("encoding %q is not supported", c.Encoding))
	}
	return err
}

// PasswordRequired reports whether clients must authenticate
func (c *Config) PasswordRequired() bool {
	return c.PasswordCheck && c.Password != ""
}
