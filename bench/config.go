package bench

import (
	"errors"
	"fmt"
	"time"
)

// Defaults of a proving challenge.
const (
	DefaultDuration      = 20 * time.Second
	DefaultWorkers       = 100
	DefaultWarmupWorkers = 100
	DefaultShutdownGrace = 30 * time.Second
)

// ErrInvalidConfig is returned by Run for a config that fails Validate.
var ErrInvalidConfig = errors.New("invalid bench config")

// Config holds the settings of a proving challenge.
type Config struct {
	// Duration is the time budget of the proving challenge.
	Duration time.Duration
	// Workers is the number of concurrent proving workers.
	Workers int
	// ShutdownGrace bounds how long results are awaited after the terminator
	// is raised. Zero waits for every worker.
	ShutdownGrace time.Duration
}

// DefaultConfig returns the default challenge settings.
func DefaultConfig() Config {
	return Config{
		Duration:      DefaultDuration,
		Workers:       DefaultWorkers,
		ShutdownGrace: DefaultShutdownGrace,
	}
}

// Validate checks the budget is positive and the other settings are not negative.
func (c Config) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidConfig, c.Duration)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: negative worker count %d", ErrInvalidConfig, c.Workers)
	}
	if c.ShutdownGrace < 0 {
		return fmt.Errorf("%w: negative shutdown grace %v", ErrInvalidConfig, c.ShutdownGrace)
	}
	return nil
}
