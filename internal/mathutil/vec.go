package mathutil

import "math"

// Vec3 is a world-space point or direction. Y is up.
type Vec3 struct {
	X, Y, Z float64
}

// V3 is a convenience constructor for Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Len returns the euclidean length.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Dist returns the euclidean distance between two points.
func (v Vec3) Dist(o Vec3) float64 {
	return v.Sub(o).Len()
}

// Vec2 is a screen-space point.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle on the ground plane (x, z).
type Rect struct {
	MinX, MinZ, MaxX, MaxZ float64
}

// Overlaps reports whether both ranges intersect. Touching edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.MaxX > o.MinX && r.MinX < o.MaxX && r.MaxZ > o.MinZ && r.MinZ < o.MaxZ
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// SnapDown rounds v down to a multiple of step.
func SnapDown(v, step float64) float64 {
	return math.Floor(v/step) * step
}
