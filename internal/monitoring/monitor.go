// Package monitoring tracks frame timing and renderer workload.
package monitoring

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"alleycats/internal/engine"
)

// Alert thresholds.
const (
	LowFPSThreshold = 30.0
	HighMemoryMB    = 500.0
	PolygonBudget   = 20000
)

// PerformanceMonitor tracks frame timing and per-frame draw counts. It is
// safe for concurrent use, so snapshot servers can share one with the game.
type PerformanceMonitor struct {
	frameCount atomic.Uint64
	frameTime  atomic.Uint64 // nanoseconds, last frame
	totalTime  atomic.Uint64 // nanoseconds, all frames

	// Last frame's renderer work.
	boxes        atomic.Int64
	facesDrawn   atomic.Int64
	facesCulled  atomic.Int64
	windows      atomic.Int64
	gridCells    atomic.Int64
	characters   atomic.Int64
	occluded     atomic.Int64
	spritePixels atomic.Int64

	mutex          sync.RWMutex
	avgFrameTime   float64
	peakFrameTime  uint64
	startTime      time.Time
	enableDetailed bool
}

// NewPerformanceMonitor creates a new performance monitor
func NewPerformanceMonitor() *PerformanceMonitor {
	return &PerformanceMonitor{
		startTime:      time.Now(),
		enableDetailed: true,
	}
}

// FrameTimer measures one frame.
type FrameTimer struct {
	monitor   *PerformanceMonitor
	startTime time.Time
}

// StartFrame begins frame timing
func (pm *PerformanceMonitor) StartFrame() *FrameTimer {
	return &FrameTimer{
		monitor:   pm,
		startTime: time.Now(),
	}
}

// EndFrame completes frame timing
func (ft *FrameTimer) EndFrame() {
	ft.monitor.recordFrame(uint64(time.Since(ft.startTime).Nanoseconds()))
}

func (pm *PerformanceMonitor) recordFrame(ns uint64) {
	pm.frameTime.Store(ns)
	total := pm.totalTime.Add(ns)
	count := pm.frameCount.Add(1)

	pm.mutex.Lock()
	if pm.enableDetailed {
		pm.avgFrameTime = float64(total) / float64(count)
	}
	if ns > pm.peakFrameTime {
		pm.peakFrameTime = ns
	}
	pm.mutex.Unlock()
}

// RecordRender stores the renderer's counters for the last frame.
func (pm *PerformanceMonitor) RecordRender(s engine.Stats) {
	pm.boxes.Store(int64(s.Boxes))
	pm.facesDrawn.Store(int64(s.FacesDrawn))
	pm.facesCulled.Store(int64(s.FacesCulled))
	pm.windows.Store(int64(s.Windows))
	pm.gridCells.Store(int64(s.GridCells))
	pm.characters.Store(int64(s.Characters))
	pm.occluded.Store(int64(s.Occluded))
	pm.spritePixels.Store(int64(s.SpritePixels))
}

// FrameMetrics is a point-in-time summary.
type FrameMetrics struct {
	FramesPerSecond float64
	FrameTime       time.Duration
	Frames          uint64
	Boxes           int64
	FacesDrawn      int64
	Characters      int64
	Occluded        int64
	MemoryUsageMB   uint64
}

// GetCurrentMetrics returns current performance metrics
func (pm *PerformanceMonitor) GetCurrentMetrics() FrameMetrics {
	frameTime := pm.frameTime.Load()
	fps := 0.0
	if frameTime > 0 {
		fps = float64(time.Second) / float64(frameTime)
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return FrameMetrics{
		FramesPerSecond: fps,
		FrameTime:       time.Duration(frameTime),
		Frames:          pm.frameCount.Load(),
		Boxes:           pm.boxes.Load(),
		FacesDrawn:      pm.facesDrawn.Load(),
		Characters:      pm.characters.Load(),
		Occluded:        pm.occluded.Load(),
		MemoryUsageMB:   memStats.Alloc / 1024 / 1024,
	}
}

// GetDetailedStats returns detailed performance statistics
func (pm *PerformanceMonitor) GetDetailedStats() map[string]interface{} {
	pm.mutex.RLock()
	avg, peak, start := pm.avgFrameTime, pm.peakFrameTime, pm.startTime
	pm.mutex.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	fps := 0.0
	if ft := pm.frameTime.Load(); ft > 0 {
		fps = float64(time.Second) / float64(ft)
	}

	return map[string]interface{}{
		"uptime_seconds":     time.Since(start).Seconds(),
		"frame_count":        pm.frameCount.Load(),
		"avg_frame_time_ms":  avg / float64(time.Millisecond),
		"peak_frame_time_ms": float64(peak) / float64(time.Millisecond),
		"current_fps":        fps,
		"boxes":              pm.boxes.Load(),
		"faces_drawn":        pm.facesDrawn.Load(),
		"faces_culled":       pm.facesCulled.Load(),
		"windows":            pm.windows.Load(),
		"grid_cells":         pm.gridCells.Load(),
		"characters":         pm.characters.Load(),
		"characters_hidden":  pm.occluded.Load(),
		"sprite_pixels":      pm.spritePixels.Load(),
		"memory_alloc_mb":    memStats.Alloc / 1024 / 1024,
		"gc_cycles":          memStats.NumGC,
		"goroutines":         runtime.NumGoroutine(),
	}
}

// PerformanceAlert represents a performance warning
type PerformanceAlert struct {
	Type      string
	Message   string
	Value     float64
	Threshold float64
	Timestamp time.Time
}

// CheckPerformanceAlerts checks for performance issues and returns alerts
func (pm *PerformanceMonitor) CheckPerformanceAlerts() []PerformanceAlert {
	alerts := make([]PerformanceAlert, 0)
	now := time.Now()

	if frameTime := pm.frameTime.Load(); frameTime > 0 {
		fps := float64(time.Second) / float64(frameTime)
		if fps < LowFPSThreshold {
			alerts = append(alerts, PerformanceAlert{
				Type:      "low_fps",
				Message:   "Frame rate is below 30 FPS",
				Value:     fps,
				Threshold: LowFPSThreshold,
				Timestamp: now,
			})
		}
	}

	if faces := pm.facesDrawn.Load() + pm.gridCells.Load(); faces > PolygonBudget {
		alerts = append(alerts, PerformanceAlert{
			Type:      "polygon_budget",
			Message:   "Frame painted more than 20000 polygons",
			Value:     float64(faces),
			Threshold: PolygonBudget,
			Timestamp: now,
		})
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	if memoryMB := float64(memStats.Alloc) / 1024 / 1024; memoryMB > HighMemoryMB {
		alerts = append(alerts, PerformanceAlert{
			Type:      "high_memory",
			Message:   "Memory usage is above 500MB",
			Value:     memoryMB,
			Threshold: HighMemoryMB,
			Timestamp: now,
		})
	}

	return alerts
}

// EnableDetailedLogging enables/disables running averages
func (pm *PerformanceMonitor) EnableDetailedLogging(enabled bool) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()
	pm.enableDetailed = enabled
}

// Reset resets all performance counters
func (pm *PerformanceMonitor) Reset() {
	pm.frameCount.Store(0)
	pm.frameTime.Store(0)
	pm.totalTime.Store(0)
	pm.RecordRender(engine.Stats{})

	pm.mutex.Lock()
	pm.avgFrameTime = 0
	pm.peakFrameTime = 0
	pm.startTime = time.Now()
	pm.mutex.Unlock()
}
