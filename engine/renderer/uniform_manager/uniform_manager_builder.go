package uniform_manager

import (
	"log/slog"
	"time"
)

// UniformManagerBuilderOption is a functional option for configuring a UniformManager.
type UniformManagerBuilderOption func(*uniformManager)

// WithLogger sets the logger used for not-found, validation and debug messages.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - UniformManagerBuilderOption: option function to apply
func WithLogger(l *slog.Logger) UniformManagerBuilderOption {
	return func(m *uniformManager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock replaces time.Now for last-update timestamps.
//
// Parameters:
//   - now: the clock
//
// Returns:
//   - UniformManagerBuilderOption: option function to apply
func WithClock(now func() time.Time) UniformManagerBuilderOption {
	return func(m *uniformManager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithDebug enables debug logging of every applied write.
//
// Parameters:
//   - debug: the initial debug mode
//
// Returns:
//   - UniformManagerBuilderOption: option function to apply
func WithDebug(debug bool) UniformManagerBuilderOption {
	return func(m *uniformManager) {
		m.debug = debug
	}
}
