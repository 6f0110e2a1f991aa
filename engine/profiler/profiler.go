package profiler

import (
	"log/slog"
	"runtime"
	"time"
)

// Report is one interval's worth of frame and memory statistics.
type Report struct {
	// FPS is the average frame rate over the interval.
	FPS float64

	// HeapMB is the live heap size in MiB.
	HeapMB float64

	// AllocRateMB is the heap allocation rate in MiB per second.
	AllocRateMB float64

	// SysMB is the memory obtained from the OS in MiB.
	SysMB float64

	// GCCount is the total number of completed GC cycles.
	GCCount uint32

	// LastPause and MaxPause are the most recent and the longest GC pause of the interval.
	LastPause time.Duration
	MaxPause  time.Duration

	// DrawCalls is the number of draw calls of the last frame.
	DrawCalls int
}

// Profiler tracks frame rate and memory statistics and logs them at a fixed interval.
type Profiler struct {
	logger         *slog.Logger
	now            func() time.Time
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Report
}

// ProfilerOption is a functional option applied to a Profiler by NewProfiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often Tick reports. Defaults to one second.
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithLogger sets the logger reports are written to. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ProfilerOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}

// NewProfiler creates a new Profiler.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		logger:         slog.Default(),
		now:            time.Now,
		updateInterval: time.Second,
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame. When the interval has elapsed it logs a Report at info
// level and starts a new interval.
//
// Parameters:
//   - drawCalls: the draw calls issued by the frame just finished
//
// Returns:
//   - bool: true if a report was logged this tick
func (p *Profiler) Tick(drawCalls int) bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	r := Report{
		FPS:         float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:     p.memStats.NumGC,
		DrawCalls:   drawCalls,
	}
	r.LastPause, r.MaxPause = p.pauses()

	p.logger.Info("profiler",
		slog.Float64("fps", r.FPS),
		slog.Float64("heap_mb", r.HeapMB),
		slog.Float64("alloc_rate_mb_s", r.AllocRateMB),
		slog.Uint64("gc", uint64(r.GCCount)),
		slog.Duration("gc_last_pause", r.LastPause),
		slog.Duration("gc_max_pause", r.MaxPause),
		slog.Float64("sys_mb", r.SysMB),
		slog.Int("draw_calls", r.DrawCalls),
	)

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = r.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.last = r
	return true
}

// pauses returns the latest GC pause and the longest one since the previous report.
// PauseNs is a circular buffer of the last 256 pauses.
func (p *Profiler) pauses() (last, longest time.Duration) {
	gcCount := p.memStats.NumGC
	if gcCount == 0 {
		return 0, 0
	}
	last = time.Duration(p.memStats.PauseNs[(gcCount-1)%256])
	start := p.lastGCCount
	if gcCount-start > 256 {
		start = gcCount - 256
	}
	for i := start; i < gcCount; i++ {
		longest = max(longest, time.Duration(p.memStats.PauseNs[i%256]))
	}
	return last, longest
}

// Last returns the most recent report, or the zero Report before the first one.
func (p *Profiler) Last() Report {
	return p.last
}
