package scene

import (
	"math"
	"math/rand"

	"alleycats/internal/mathutil"
	"alleycats/internal/rgb"
)

// CityOptions controls GenerateCity. Sizes are in world units (feet).
type CityOptions struct {
	Seed         int64
	BlockRadius  int     // blocks from the centre on each axis
	BlockSpacing float64 // distance between block centres
	ClearRadius  int     // blocks around the centre left empty for spawning
	MinFootprint float64
	MaxFootprint float64
	MinHeight    float64
	MaxHeight    float64
	Colors       []rgb.Color

	Infill          int
	InfillSpread    float64 // infill x/z lie in [-spread/2, spread/2)
	InfillClear     float64 // no infill within this |x| and |z| of the centre
	InfillMinSize   float64
	InfillMaxSize   float64
	InfillMinHeight float64
	InfillMaxHeight float64
	InfillColor     rgb.Color
}

// DefaultCity returns the stock downtown layout.
func DefaultCity() CityOptions {
	return CityOptions{
		Seed:         1,
		BlockRadius:  5,
		BlockSpacing: 60,
		ClearRadius:  1,
		MinFootprint: 25,
		MaxFootprint: 35,
		MinHeight:    15,
		MaxHeight:    65,
		Colors: []rgb.Color{
			rgb.Hex("#4a4a6a"),
			rgb.Hex("#5a5a7a"),
			rgb.Hex("#6a5a7a"),
			rgb.Hex("#5a6a7a"),
		},
		Infill:          20,
		InfillSpread:    400,
		InfillClear:     50,
		InfillMinSize:   10,
		InfillMaxSize:   25,
		InfillMinHeight: 8,
		InfillMaxHeight: 33,
		InfillColor:     rgb.Hex("#3a3a5a"),
	}
}

// GenerateCity fills s with block buildings and small infill buildings and
// returns how many were added. The same options always yield the same city.
func GenerateCity(s *Store, opts CityOptions) int {
	rng := rand.New(rand.NewSource(opts.Seed))
	between := func(lo, hi float64) float64 {
		return lo + rng.Float64()*(hi-lo)
	}
	colors := opts.Colors
	if len(colors) == 0 {
		colors = []rgb.Color{rgb.Fallback}
	}

	added := 0
	for bx := -opts.BlockRadius; bx <= opts.BlockRadius; bx++ {
		for bz := -opts.BlockRadius; bz <= opts.BlockRadius; bz++ {
			if abs(bx) <= opts.ClearRadius && abs(bz) <= opts.ClearRadius {
				continue
			}
			cx := float64(bx) * opts.BlockSpacing
			cz := float64(bz) * opts.BlockSpacing
			w := between(opts.MinFootprint, opts.MaxFootprint)
			h := between(opts.MinHeight, opts.MaxHeight)
			d := between(opts.MinFootprint, opts.MaxFootprint)
			c := colors[rng.Intn(len(colors))]
			s.AddBuilding(mathutil.V3(cx-w/2, 0, cz-d/2), mathutil.V3(w, h, d), c)
			added++
		}
	}

	for i := 0; i < opts.Infill; i++ {
		x := (rng.Float64() - 0.5) * opts.InfillSpread
		z := (rng.Float64() - 0.5) * opts.InfillSpread
		w := between(opts.InfillMinSize, opts.InfillMaxSize)
		h := between(opts.InfillMinHeight, opts.InfillMaxHeight)
		d := between(opts.InfillMinSize, opts.InfillMaxSize)
		if math.Abs(x) < opts.InfillClear && math.Abs(z) < opts.InfillClear {
			continue
		}
		s.AddBuilding(mathutil.V3(x, 0, z), mathutil.V3(w, h, d), opts.InfillColor)
		added++
	}
	return added
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
