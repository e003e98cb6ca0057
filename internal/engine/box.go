package engine

import (
	"sort"

	"alleycats/internal/mathutil"
	"alleycats/internal/rgb"
	"alleycats/internal/surface"
)

// Face is one side of an axis-aligned box. Corners index the vertices
// returned by boxCorners.
type Face struct {
	Name    string
	Corners [4]int
	Normal  mathutil.Vec3
	Shade   float64
	// Wall is the window-cache face index for vertical faces, -1 otherwise.
	Wall int
}

// BoxFaces lists the six faces. Vertices 0-3 are the bottom ring starting at
// the min corner, 4-7 the same ring at the top.
var BoxFaces = [6]Face{
	{Name: "top", Corners: [4]int{4, 5, 6, 7}, Normal: mathutil.V3(0, 1, 0), Shade: 1.0, Wall: -1},
	{Name: "bottom", Corners: [4]int{0, 1, 2, 3}, Normal: mathutil.V3(0, -1, 0), Shade: 0.9, Wall: -1},
	{Name: "left", Corners: [4]int{0, 4, 7, 3}, Normal: mathutil.V3(-1, 0, 0), Shade: 0.95, Wall: 0},
	{Name: "right", Corners: [4]int{1, 5, 6, 2}, Normal: mathutil.V3(1, 0, 0), Shade: 0.95, Wall: 1},
	{Name: "front", Corners: [4]int{0, 1, 5, 4}, Normal: mathutil.V3(0, 0, -1), Shade: 0.98, Wall: 2},
	{Name: "back", Corners: [4]int{3, 2, 6, 7}, Normal: mathutil.V3(0, 0, 1), Shade: 0.95, Wall: 3},
}

func boxCorners(pos, size mathutil.Vec3) [8]mathutil.Vec3 {
	x, y, z := pos.X, pos.Y, pos.Z
	w, h, d := size.X, size.Y, size.Z
	return [8]mathutil.Vec3{
		{X: x, Y: y, Z: z},
		{X: x + w, Y: y, Z: z},
		{X: x + w, Y: y, Z: z + d},
		{X: x, Y: y, Z: z + d},
		{X: x, Y: y + h, Z: z},
		{X: x + w, Y: y + h, Z: z},
		{X: x + w, Y: y + h, Z: z + d},
		{X: x, Y: y + h, Z: z + d},
	}
}

// FacesToward reports whether a face of the box points at eye: the vector
// from the face centre to eye has a positive dot product with the normal.
func FacesToward(f Face, eye, pos, size mathutil.Vec3) bool {
	half := size.Scale(0.5)
	center := pos.Add(half).Add(mathutil.V3(f.Normal.X*half.X, f.Normal.Y*half.Y, f.Normal.Z*half.Z))
	return f.Normal.Dot(eye.Sub(center)) > 0
}

// CullFaces returns the faces of the box that point toward eye, in
// BoxFaces order.
func CullFaces(eye, pos, size mathutil.Vec3) []Face {
	out := make([]Face, 0, 3)
	for _, f := range BoxFaces {
		if FacesToward(f, eye, pos, size) {
			out = append(out, f)
		}
	}
	return out
}

// ProjectedFace is a visible face ready to paint.
type ProjectedFace struct {
	Face   Face
	Points []mathutil.Vec2
	Depth  float64 // mean camera-space depth of the corners
}

// SortFaces orders faces back to front.
func SortFaces(faces []ProjectedFace) {
	sort.SliceStable(faces, func(i, j int) bool {
		return faces[i].Depth > faces[j].Depth
	})
}

// DrawBox paints an axis-aligned box with per-face shading. The whole box is
// skipped when any corner is behind the near plane. It reports whether
// anything was drawn.
func (r *Renderer) DrawBox(s surface.Surface, pos, size mathutil.Vec3, base rgb.Color, opacity float64) bool {
	drawn, culled, ok := r.paintBox(s, pos, size, base, opacity)
	if !ok {
		r.stats.BoxesSkipped++
		return false
	}
	r.stats.FacesCulled += culled
	r.stats.Boxes++
	r.stats.FacesDrawn += drawn
	return true
}

// paintBox draws the box without touching the frame stats. It returns the
// number of faces painted and culled.
func (r *Renderer) paintBox(s surface.Surface, pos, size mathutil.Vec3, base rgb.Color, opacity float64) (drawn, culled int, ok bool) {
	corners := boxCorners(pos, size)
	var projected [8]Point
	if !r.Camera.projectAll(corners[:], projected[:]) {
		return 0, 0, false
	}

	visible := CullFaces(r.Camera.Pos, pos, size)
	faces := make([]ProjectedFace, 0, len(visible))
	for _, f := range visible {
		pf := ProjectedFace{Face: f, Points: make([]mathutil.Vec2, 4)}
		for i, idx := range f.Corners {
			pf.Points[i] = projected[idx].XY()
			pf.Depth += projected[idx].Depth
		}
		pf.Depth /= 4
		faces = append(faces, pf)
	}
	SortFaces(faces)

	for _, pf := range faces {
		s.FillPolygon(pf.Points, base.Darken(pf.Face.Shade).RGBA(opacity))
		if r.Options.Outlines {
			s.StrokePolygon(pf.Points, r.Options.OutlineWidth, r.Options.OutlineColor)
		}
	}
	return len(faces), len(BoxFaces) - len(visible), true
}
