package retry

import (
	"errors"
	"time"
)

// Config defines the configuration for the retry mechanism.
type Config struct {
	Enable   bool          `mapstructure:"enable"`   // Enable retry
	Attempts int           `mapstructure:"attempts"` // Total attempts including the first
	Interval time.Duration `mapstructure:"interval"` // Delay before the first retry
	Backoff  float64       `mapstructure:"backoff"`  // Multiplier applied to the delay per attempt
}

// DefaultConfig returns the default retry configuration.
func DefaultConfig() *Config {
	return &Config{
		Enable:   true,
		Attempts: 3,
		Interval: time.Second,
		Backoff:  2.0,
	}
}

// Validate validates the retry configuration.
func (cfg *Config) Validate() error {
	if cfg == nil || !cfg.Enable {
		return nil
	}
	if cfg.Attempts <= 0 {
		return errors.New("attempts must be greater than zero")
	}
	if cfg.Interval < 0 {
		return errors.New("interval cannot be negative")
	}
	if cfg.Backoff < 1 {
		return errors.New("backoff multiplier cannot be below one")
	}
	return nil
}
