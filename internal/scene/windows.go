package scene

import (
	"math"
	"math/rand"

	"alleycats/internal/rgb"
)

// Window layout shared by the cache and the window overlay.
const (
	WindowSpacing = 6.0
	// SlotsPerFloor is 4 vertical faces x 2 window positions.
	SlotsPerFloor = 8
)

// WindowPalette is the set of lit-window colors.
var WindowPalette = []rgb.Color{
	rgb.Hex("#ffa500"),
	rgb.Hex("#ffd700"),
	rgb.Hex("#ff8c00"),
	rgb.Hex("#ffaa00"),
	rgb.Hex("#ffcc00"),
}

// WindowFallback is returned for slots outside the cache.
var WindowFallback = WindowPalette[0]

// WindowColors caches one color per (floor, face, slot). It is filled once
// when the building is created so frames never re-roll it.
type WindowColors struct {
	floors [][SlotsPerFloor]rgb.Color
}

// WindowFloors is the number of window rows on a building of height h.
func WindowFloors(h float64) int {
	if h <= 0 {
		return 0
	}
	return int(math.Floor(h / WindowSpacing))
}

// WindowSeed derives a PRNG seed from the building's grid coordinates.
func WindowSeed(x, z float64) int64 {
	gx := int64(math.Floor(x))
	gz := int64(math.Floor(z))
	return gx*73856093 ^ gz*19349663
}

// NewWindowColors rolls the cache for a building at (x, z) with height h.
func NewWindowColors(x, z, h float64) *WindowColors {
	rng := rand.New(rand.NewSource(WindowSeed(x, z)))
	n := WindowFloors(h)
	wc := &WindowColors{floors: make([][SlotsPerFloor]rgb.Color, n)}
	for f := 0; f < n; f++ {
		for slot := 0; slot < SlotsPerFloor; slot++ {
			wc.floors[f][slot] = WindowPalette[rng.Intn(len(WindowPalette))]
		}
	}
	return wc
}

// Floors returns how many rows are cached.
func (wc *WindowColors) Floors() int {
	if wc == nil {
		return 0
	}
	return len(wc.floors)
}

// At returns the color for floor (0-based), face (0..3) and position (0..1).
func (wc *WindowColors) At(floor, face, pos int) rgb.Color {
	slot := face*2 + pos
	if wc == nil || floor < 0 || floor >= len(wc.floors) || slot < 0 || slot >= SlotsPerFloor {
		return WindowFallback
	}
	return wc.floors[floor][slot]
}
