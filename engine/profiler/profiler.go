package profiler

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// StatsSource contributes extra attributes (uniform manager counters, object counts) to each
// profiler report.
type StatsSource func() []slog.Attr

// Snapshot is one profiler report.
type Snapshot struct {
	FPS          float64
	HeapMB       float64
	AllocRateMB  float64
	GCCount      uint32
	LastPauseUs  uint64
	MaxPauseUs   uint64
	SysMB        float64
	ReportedAt   time.Time
	FramesPerRun int
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Reports through slog at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Snapshot

	logger  *slog.Logger
	now     func() time.Time
	sources []StatsSource
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		logger:         slog.With("component", "profiler"),
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, heap usage, allocation rate, GC count/pause times, total memory,
// plus the attributes of every registered StatsSource.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	snap := Snapshot{
		FPS:          float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:       float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:        float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB:  float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:      p.memStats.NumGC,
		ReportedAt:   currentTime,
		FramesPerRun: p.frameCount,
	}
	if gcCount := p.memStats.NumGC; gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses.
		snap.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		start := p.lastGCCount
		if gcCount-start > 256 {
			start = gcCount - 256
		}
		for i := start; i < gcCount; i++ {
			snap.MaxPauseUs = max(snap.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	attrs := []slog.Attr{
		slog.Float64("fps", snap.FPS),
		slog.Float64("heap_mb", snap.HeapMB),
		slog.Float64("alloc_rate_mb", snap.AllocRateMB),
		slog.Uint64("gc_count", uint64(snap.GCCount)),
		slog.Uint64("gc_last_pause_us", snap.LastPauseUs),
		slog.Uint64("gc_max_pause_us", snap.MaxPauseUs),
		slog.Float64("sys_mb", snap.SysMB),
	}
	for _, src := range p.sources {
		attrs = append(attrs, src()...)
	}
	p.logger.LogAttrs(context.Background(), slog.LevelInfo, "Frame stats", attrs...)

	p.last = snap
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = snap.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recent report, zero before the first one.
func (p *Profiler) Last() Snapshot {
	return p.last
}
