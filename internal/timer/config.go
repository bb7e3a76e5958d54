package timer

import (
	"errors"
	"fmt"
)

// ErrInvalidDuration is returned when a configured interval is below one
// minute.
var ErrInvalidDuration = errors.New("interval must be at least one minute")

// Config holds the configured focus and break interval lengths. A Config
// is only mutable while the machine is idle; validation happens at the
// input boundary so the state machine never observes an invalid one.
type Config struct {
	StudyMinutes int
	BreakMinutes int
}

// DefaultConfig returns the classic 25/5 pomodoro configuration.
func DefaultConfig() Config {
	return Config{StudyMinutes: 25, BreakMinutes: 5}
}

// Validate rejects non-positive interval lengths.
func (c Config) Validate() error {
	if c.StudyMinutes < 1 {
		return fmt.Errorf("study: %w", ErrInvalidDuration)
	}
	if c.BreakMinutes < 1 {
		return fmt.Errorf("break: %w", ErrInvalidDuration)
	}
	return nil
}

// StudySeconds returns the focus interval length in seconds.
func (c Config) StudySeconds() int {
	return c.StudyMinutes * 60
}

// BreakSeconds returns the break interval length in seconds.
func (c Config) BreakSeconds() int {
	return c.BreakMinutes * 60
}
