package engine

import (
	"math"

	"alleycats/internal/mathutil"
	"alleycats/internal/scene"
	"alleycats/internal/surface"
)

// Window geometry in world units.
const (
	windowWidth  = 2.5
	windowMinH   = windowWidth
	windowMaxH   = windowWidth * 2
	windowInset  = 2.0 // from the face edge
	windowTopPad = 3.0
	windowDepth  = 0.2
	windowProud  = 0.1 // how far windows stick out of the wall
	// A wall wider than this gets a second window per floor.
	windowPairMin = 10.0
)

// WindowHeight returns the height of the windows on floor f (1-based) of a
// building at (x, z) with height h. It only depends on its arguments, so a
// building looks the same every frame.
func WindowHeight(f int, x, z, h float64) float64 {
	wy := float64(f)*scene.WindowSpacing - 3
	seed := math.Sin(float64(f)*1.7+x*0.3+z*0.7)*0.5 + 0.5
	maxH := math.Min(windowMaxH, math.Max(windowMinH, h-wy-windowTopPad))
	return windowMinH + seed*(maxH-windowMinH)
}

// DrawWindows paints lit windows on the vertical faces of b that point at
// the camera. Colors come from the building's cache. Windows only count
// toward Stats.Windows, never the building counters.
func (r *Renderer) DrawWindows(s surface.Surface, b *scene.Object) int {
	x, y, z := b.Pos.X, b.Pos.Y, b.Pos.Z
	w, h, d := b.Size.X, b.Size.Y, b.Size.Z
	eye := r.Camera.Pos

	drawn := 0
	for _, face := range BoxFaces {
		if face.Wall < 0 || !FacesToward(face, eye, b.Pos, b.Size) {
			continue
		}
		floors := scene.WindowFloors(h)
		for f := 1; f <= floors; f++ {
			wy := y + float64(f)*scene.WindowSpacing - 3
			wh := WindowHeight(f, x, z, h)
			for slot, pos := range windowSlots(face, x, z, w, d) {
				var size mathutil.Vec3
				if face.Normal.X != 0 {
					size = mathutil.V3(windowDepth, wh, windowWidth)
				} else {
					size = mathutil.V3(windowWidth, wh, windowDepth)
				}
				c := b.Windows.At(f-1, face.Wall, slot)
				if _, _, ok := r.paintBox(s, mathutil.V3(pos.X, wy, pos.Y), size, c, 1); ok {
					drawn++
				}
			}
		}
	}
	return drawn
}

// windowSlots returns the (x, z) origins of the windows on one wall. The
// second slot only exists on walls wider than windowPairMin.
func windowSlots(face Face, x, z, w, d float64) []mathutil.Vec2 {
	switch face.Wall {
	case 0, 1:
		wx := x - windowProud
		if face.Wall == 1 {
			wx = x + w - windowProud
		}
		slots := []mathutil.Vec2{{X: wx, Y: z + windowInset}}
		if d > windowPairMin {
			slots = append(slots, mathutil.Vec2{X: wx, Y: z + d - windowInset - windowWidth})
		}
		return slots
	default:
		wz := z - windowProud
		if face.Wall == 3 {
			wz = z + d - windowProud
		}
		slots := []mathutil.Vec2{{X: x + windowInset, Y: wz}}
		if w > windowPairMin {
			slots = append(slots, mathutil.Vec2{X: x + w - windowInset - windowWidth, Y: wz})
		}
		return slots
	}
}
