package engine

import (
	"math"

	"alleycats/internal/mathutil"
)

// Point is a projected point: screen coordinates plus camera-space depth.
type Point struct {
	X, Y  float64
	Depth float64
}

// XY drops the depth.
func (p Point) XY() mathutil.Vec2 {
	return mathutil.Vec2{X: p.X, Y: p.Y}
}

// Project maps a world point to the screen. ok is false when the point sits
// on or behind the near plane or does not land on a finite screen position;
// callers skip the primitive in that case.
// Project has no side effects.
func (c *Camera) Project(p mathutil.Vec3) (pt Point, ok bool) {
	d := p.Sub(c.Pos)

	sinY, cosY := math.Sincos(c.Yaw)
	tx := d.X*cosY - d.Z*sinY
	tz := d.X*sinY + d.Z*cosY

	sinX, cosX := math.Sincos(c.Pitch)
	ty := d.Y*cosX - tz*sinX
	tz = d.Y*sinX + tz*cosX

	// Written negated so a NaN depth is rejected too.
	if !(tz > c.Near) {
		return Point{}, false
	}

	h := float64(c.Height)
	scale := (h / 2) / math.Tan(c.FOV/2*math.Pi/180)
	pt = Point{
		X:     tx*scale/tz*c.Scale + float64(c.Width)/2,
		Y:     -ty*scale/tz*c.Scale + h/2,
		Depth: tz,
	}
	if !finite(pt.X) || !finite(pt.Y) || math.IsInf(tz, 0) {
		return Point{}, false
	}
	return pt, true
}

// projectAll projects every point into out and reports whether all of them
// were visible.
func (c *Camera) projectAll(pts []mathutil.Vec3, out []Point) bool {
	for i, p := range pts {
		pt, ok := c.Project(p)
		if !ok {
			return false
		}
		out[i] = pt
	}
	return true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
