package scene_config

import (
	"log/slog"
	"math/rand/v2"
	"time"
)

// ManagerBuilderOption is a functional option for configuring a Manager.
type ManagerBuilderOption func(*manager)

// WithLogger sets the manager's logger.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithLogger(l *slog.Logger) ManagerBuilderOption {
	return func(m *manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithRand sets the random source for generated configurations and variants.
//
// Parameters:
//   - r: the random source
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithRand(r *rand.Rand) ManagerBuilderOption {
	return func(m *manager) {
		if r != nil {
			m.rng = r
		}
	}
}

// WithClock replaces time.Now for creation timestamps.
//
// Parameters:
//   - now: the clock
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithClock(now func() time.Time) ManagerBuilderOption {
	return func(m *manager) {
		if now != nil {
			m.now = now
		}
	}
}
