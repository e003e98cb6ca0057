// Package engine is the CPU-side 3D renderer: camera and projection, box and
// billboard drawing, the occlusion heuristic and the per-frame driver. It
// paints onto a surface.Surface in back-to-front order.
package engine

import (
	"math"

	"alleycats/internal/mathutil"
)

// Camera limits.
const (
	MinPitch = -math.Pi / 2
	MaxPitch = math.Pi / 2
	MinZoom  = 0.5
	MaxZoom  = 3.0
)

// Isometric preset values.
const (
	IsoPitch  = -math.Pi / 4
	IsoYaw    = math.Pi / 4
	IsoHeight = 50.0
)

// Camera is a free-look perspective camera. Pitch rotates about the camera's
// horizontal axis (negative looks down), Yaw about the world Y axis. There is
// no roll.
type Camera struct {
	Pos   mathutil.Vec3
	Pitch float64
	Yaw   float64
	FOV   float64 // vertical, degrees
	Scale float64 // zoom factor
	Near  float64
	Far   float64

	// Viewport in pixels.
	Width, Height int
}

// NewCamera returns the default street-level camera looking down at the city.
func NewCamera(width, height int) *Camera {
	return &Camera{
		Pos:    mathutil.V3(0, 50, 100),
		Pitch:  -0.5,
		FOV:    60,
		Scale:  1,
		Near:   1,
		Far:    1000,
		Width:  width,
		Height: height,
	}
}

// SetViewport updates the viewport size, e.g. after a window resize.
func (c *Camera) SetViewport(width, height int) {
	c.Width = width
	c.Height = height
}

// Move translates the camera. There are no bounds.
func (c *Camera) Move(dx, dy, dz float64) {
	c.Pos = c.Pos.Add(mathutil.V3(dx, dy, dz))
}

// Rotate adds to pitch and yaw. Pitch is clamped to straight up/down; yaw is
// left unbounded.
func (c *Camera) Rotate(dPitch, dYaw float64) {
	c.Pitch = mathutil.Clamp(c.Pitch+dPitch, MinPitch, MaxPitch)
	c.Yaw += dYaw
}

// Zoom multiplies the zoom factor, clamped to [MinZoom, MaxZoom].
func (c *Camera) Zoom(factor float64) {
	c.Scale = mathutil.Clamp(c.Scale*factor, MinZoom, MaxZoom)
}

// SetIsometric switches to the fixed three-quarter view. X and Z are kept.
func (c *Camera) SetIsometric() {
	c.Pitch = IsoPitch
	c.Yaw = IsoYaw
	c.Pos.Y = IsoHeight
	c.Scale = 1
}

// Forward returns the horizontal unit vector the camera looks along.
func (c *Camera) Forward() mathutil.Vec3 {
	return mathutil.V3(math.Sin(c.Yaw), 0, math.Cos(c.Yaw))
}

// Right returns the horizontal unit vector to the camera's right.
func (c *Camera) Right() mathutil.Vec3 {
	return mathutil.V3(math.Cos(c.Yaw), 0, -math.Sin(c.Yaw))
}

// Position returns the eye position.
func (c *Camera) Position() mathutil.Vec3 {
	return c.Pos
}
