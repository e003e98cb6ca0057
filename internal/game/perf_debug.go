package game

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SetPerfLog turns periodic [PERF] logging on or off. Turning it on starts
// the averages over so they cover only the logged period.
func (g *Game) SetPerfLog(on bool) {
	if on && !g.perfLogEnabled {
		g.monitor.Reset()
	}
	g.perfLogEnabled = on
	g.monitor.EnableDetailedLogging(on)
}

func (g *Game) maybeLogPerf() {
	if !g.perfLogEnabled {
		return
	}
	interval := g.config.Debug.PerfLogInterval
	if interval <= 0 || g.ticks%interval != 0 {
		return
	}
	g.logPerfSnapshot()
}

func (g *Game) logPerfSnapshot() {
	stats := g.monitor.GetDetailedStats()

	fmt.Printf(
		"[PERF] fps=%.1f tps=%.1f render_avg=%.2fms render_peak=%.2fms\n",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		getPerfFloat(stats, "avg_frame_time_ms"),
		getPerfFloat(stats, "peak_frame_time_ms"),
	)
	fmt.Printf(
		"[PERF] boxes=%d faces=%d culled=%d windows=%d grid=%d characters=%d hidden=%d sprite_px=%d\n",
		getPerfInt(stats, "boxes"),
		getPerfInt(stats, "faces_drawn"),
		getPerfInt(stats, "faces_culled"),
		getPerfInt(stats, "windows"),
		getPerfInt(stats, "grid_cells"),
		getPerfInt(stats, "characters"),
		getPerfInt(stats, "characters_hidden"),
		getPerfInt(stats, "sprite_pixels"),
	)
	fmt.Printf(
		"[PERF] mem_alloc=%dMB gc_cycles=%d goroutines=%d\n",
		getPerfUint(stats, "memory_alloc_mb"),
		getPerfUint(stats, "gc_cycles"),
		getPerfInt(stats, "goroutines"),
	)

	for _, alert := range g.monitor.CheckPerformanceAlerts() {
		log.Printf("Warning: %s (%.1f, threshold %.1f)", alert.Message, alert.Value, alert.Threshold)
	}
}

func getPerfFloat(stats map[string]interface{}, key string) float64 {
	switch v := stats[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	}
	return 0
}

func getPerfInt(stats map[string]interface{}, key string) int {
	switch v := stats[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint32:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func getPerfUint(stats map[string]interface{}, key string) uint64 {
	switch v := stats[key].(type) {
	case uint64:
		return v
	case uint32:
		return uint64(v)
	case int64:
		return uint64(v)
	case int:
		return uint64(v)
	}
	return 0
}
