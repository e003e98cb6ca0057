// Package surface is the flat 2D drawing target the engine composites onto.
// Everything is painted in call order; there is no depth buffer.
package surface

import (
	"image/color"

	"alleycats/internal/mathutil"
	"alleycats/internal/rgb"
)

// Surface is a 2D drawing target.
type Surface interface {
	// Size returns the viewport in pixels.
	Size() (width, height int)
	// FillGradient paints a top-to-bottom gradient over the whole surface.
	FillGradient(stops []Stop)
	// FillPolygon fills a closed polygon.
	FillPolygon(pts []mathutil.Vec2, c color.Color)
	// StrokePolygon outlines a closed polygon.
	StrokePolygon(pts []mathutil.Vec2, width float64, c color.Color)
	// FillRect fills an axis-aligned rectangle.
	FillRect(x, y, w, h float64, c color.Color)
}

// Stop is one gradient color stop. Offset runs from 0 (top) to 1 (bottom).
type Stop struct {
	Offset float64   `yaml:"offset"`
	Color  rgb.Color `yaml:"color"`
}

// GradientAt samples a gradient at t in [0,1]. Stops must be sorted by offset.
func GradientAt(stops []Stop, t float64) rgb.Color {
	switch {
	case len(stops) == 0:
		return rgb.Black
	case t <= stops[0].Offset:
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if t > b.Offset {
			continue
		}
		span := b.Offset - a.Offset
		if span <= 0 {
			return b.Color
		}
		return a.Color.Blend(b.Color, (t-a.Offset)/span)
	}
	return stops[len(stops)-1].Color
}
