package gen

import (
	"errors"
	"runtime"
)

// Config carries the generation settings shared by the graph, the emitter
// and the session.
type Config struct {
	// Workers bounds emission parallelism. Zero means GOMAXPROCS.
	Workers int
	// Title names the API in the exported contract document.
	Title string
	// Version is the API version in the exported contract document.
	Version string
}

// workers returns the effective parallelism bound.
func (c *Config) workers() int {
	if c == nil || c.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Workers
}

// Option configures a generation session.
type Option func(*Config) error

// WithWorkers bounds the number of artifacts rendered in parallel.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "worker count must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithContractInfo sets the title and version stamped on the exported
// contract document.
func WithContractInfo(title, version string) Option {
	return func(c *Config) error {
		if title == "" {
			return NewConfigError("Title", nil, "title cannot be empty")
		}
		c.Title = title
		c.Version = version
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
