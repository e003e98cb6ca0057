package engine

import (
	"image/color"
	"math"

	"alleycats/internal/rgb"
	"alleycats/internal/surface"
)

// Options tunes what a frame draws. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	// Ground grid. Range is the half-extent in world units.
	GridSize  float64
	GridRange float64
	GridColor color.NRGBA

	Background []surface.Stop
	Fog        bool
	FogColor   color.NRGBA

	// Outlines and Windows can be turned off for a cheaper frame.
	Outlines     bool
	OutlineColor color.NRGBA
	OutlineWidth float64
	Windows      bool

	// Billboard sizing: size = max(SpriteMinSize, SpriteWorldSize*SpriteScale/depth).
	SpriteWorldSize float64
	SpriteScale     float64
	SpriteMinSize   float64
	// BossScale multiplies the boss world size and ground cell.
	BossScale float64
	// Offsets push the sprite down by a fraction of its size.
	BossOffset     float64
	DefeatedOffset float64

	HighlightWidth float64
}

// DefaultOptions returns the stock night-city look.
func DefaultOptions() Options {
	return Options{
		GridSize:  5,
		GridRange: 500,
		GridColor: color.NRGBA{R: 100, G: 100, B: 150, A: 77},

		Background: []surface.Stop{
			{Offset: 0, Color: rgb.Hex("#0a0a1a")},
			{Offset: 0.5, Color: rgb.Hex("#1a1a2e")},
			{Offset: 1, Color: rgb.Hex("#2a2a3e")},
		},
		Fog:      true,
		FogColor: color.NRGBA{R: 100, G: 100, B: 200, A: 10},

		Outlines:     true,
		OutlineColor: color.NRGBA{A: 77},
		OutlineWidth: 1,
		Windows:      true,

		SpriteWorldSize: 5,
		SpriteScale:     800,
		SpriteMinSize:   8,
		BossScale:       2,
		BossOffset:      0.125,
		DefeatedOffset:  0.4,

		HighlightWidth: 3,
	}
}

// defaultCellSize places sprites when the grid is switched off.
const defaultCellSize = 5

// cellSize is the ground cell sprites snap to. A non-positive GridSize hides
// the grid but still needs a usable cell for placement.
func (o Options) cellSize() float64 {
	if o.GridSize > 0 && !math.IsInf(o.GridSize, 0) {
		return o.GridSize
	}
	return defaultCellSize
}
