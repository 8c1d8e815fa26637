// Package config loads the HCL service configuration.
//
//	listen = ":5000"
//
//	log {
//	  level = "info"
//	  json  = false
//	}
//
//	limits {
//	  max_body_bytes     = 1048576
//	  max_iterations     = 10000
//	  max_decimal_places = 15
//	  solve_timeout      = "10s"
//	}
//
//	http {
//	  read_header_timeout = "5s"
//	  read_timeout        = "15s"
//	  write_timeout       = "15s"
//	  idle_timeout        = "60s"
//	}
//
// Every attribute and block is optional; missing values take the defaults
// shown above.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/njchilds90/gofixedpoint/internal/logging"
)

// Config is the top-level configuration file.
type Config struct {
	Listen string        `hcl:"listen,optional"`
	Log    *LogConfig    `hcl:"log,block"`
	Limits *LimitsConfig `hcl:"limits,block"`
	HTTP   *HTTPConfig   `hcl:"http,block"`
}

type LogConfig struct {
	Level string `hcl:"level,optional"`
	JSON  bool   `hcl:"json,optional"`
}

// LimitsConfig bounds what a single request may ask for.
type LimitsConfig struct {
	MaxBodyBytes     int64  `hcl:"max_body_bytes,optional"`
	MaxIterations    int    `hcl:"max_iterations,optional"`
	MaxDecimalPlaces int    `hcl:"max_decimal_places,optional"`
	SolveTimeout     string `hcl:"solve_timeout,optional"`
}

// HTTPConfig holds http.Server timeouts as Go duration strings.
type HTTPConfig struct {
	ReadHeaderTimeout string `hcl:"read_header_timeout,optional"`
	ReadTimeout       string `hcl:"read_timeout,optional"`
	WriteTimeout      string `hcl:"write_timeout,optional"`
	IdleTimeout       string `hcl:"idle_timeout,optional"`
}

const (
	DefaultListen           = ":5000"
	DefaultMaxBodyBytes     = 1 << 20
	DefaultMaxIterations    = 10000
	DefaultMaxDecimalPlaces = 15
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads an .hcl or .json config file. An empty path yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return LoadBytes(path, data)
}

// LoadBytes decodes data; filename selects the syntax by its extension.
func LoadBytes(filename string, data []byte) (*Config, error) {
	var cfg Config
	if err := hclsimple.Decode(filename, data, nil, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Limits == nil {
		c.Limits = &LimitsConfig{}
	}
	if c.Limits.MaxBodyBytes == 0 {
		c.Limits.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Limits.MaxIterations == 0 {
		c.Limits.MaxIterations = DefaultMaxIterations
	}
	if c.Limits.MaxDecimalPlaces == 0 {
		c.Limits.MaxDecimalPlaces = DefaultMaxDecimalPlaces
	}
	if c.Limits.SolveTimeout == "" {
		c.Limits.SolveTimeout = "10s"
	}
	if c.HTTP == nil {
		c.HTTP = &HTTPConfig{}
	}
	setDefault(&c.HTTP.ReadHeaderTimeout, "5s")
	setDefault(&c.HTTP.ReadTimeout, "15s")
	setDefault(&c.HTTP.WriteTimeout, "15s")
	setDefault(&c.HTTP.IdleTimeout, "60s")
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// Validate checks ranges and that every duration parses.
func (c *Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Limits.MaxBodyBytes < 0 {
		errs = append(errs, fmt.Errorf("limits.max_body_bytes must be positive, got %d", c.Limits.MaxBodyBytes))
	}
	if c.Limits.MaxIterations < 0 {
		errs = append(errs, fmt.Errorf("limits.max_iterations must be positive, got %d", c.Limits.MaxIterations))
	}
	if c.Limits.MaxDecimalPlaces < 0 {
		errs = append(errs, fmt.Errorf("limits.max_decimal_places must be positive, got %d", c.Limits.MaxDecimalPlaces))
	}
	durations := []struct{ name, value string }{
		{"limits.solve_timeout", c.Limits.SolveTimeout},
		{"http.read_header_timeout", c.HTTP.ReadHeaderTimeout},
		{"http.read_timeout", c.HTTP.ReadTimeout},
		{"http.write_timeout", c.HTTP.WriteTimeout},
		{"http.idle_timeout", c.HTTP.IdleTimeout},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(d.value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.name, err))
			continue
		}
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", d.name, v))
		}
	}
	return errors.Join(errs...)
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() logging.Level {
	l, _ := logging.ParseLevel(c.Log.Level)
	return l
}

func (c *Config) SolveTimeout() time.Duration      { return mustDuration(c.Limits.SolveTimeout) }
func (c *Config) ReadHeaderTimeout() time.Duration { return mustDuration(c.HTTP.ReadHeaderTimeout) }
func (c *Config) ReadTimeout() time.Duration       { return mustDuration(c.HTTP.ReadTimeout) }
func (c *Config) WriteTimeout() time.Duration      { return mustDuration(c.HTTP.WriteTimeout) }
func (c *Config) IdleTimeout() time.Duration       { return mustDuration(c.HTTP.IdleTimeout) }

// mustDuration parses a value already checked by Validate.
func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
