package game_object

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/material"
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

// WithRand sets the random source used for spawn positions.
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

// WithClock replaces time.Now for last-seen timestamps.
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

// WithTracker counts every geometry the manager creates. Materials are counted by the
// factory's tracker.
//
// Parameters:
//   - tracker: the resource tracker
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithTracker(tracker *common.ResourceTracker) ManagerBuilderOption {
	return func(m *manager) {
		m.tracker = tracker
	}
}

// WithMaterialFactory sets the factory used for type and highlight materials.
//
// Parameters:
//   - f: the material factory
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithMaterialFactory(f material.Factory) ManagerBuilderOption {
	return func(m *manager) {
		if f != nil {
			m.factory = f
		}
	}
}
