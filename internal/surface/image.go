package surface

import (
	"image"
	"image/color"
	"math"

	"alleycats/internal/mathutil"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// Image is a headless Surface backed by an *image.RGBA. Polygons go through
// the x/image rasterizer; it is used for snapshots and tests.
type Image struct {
	img  *image.RGBA
	z    *vector.Rasterizer
	clip []mathutil.Vec2
}

// NewImage creates a w x h transparent surface.
func NewImage(w, h int) *Image {
	return &Image{
		img: image.NewRGBA(image.Rect(0, 0, w, h)),
		z:   vector.NewRasterizer(1, 1),
	}
}

// RGBA returns the backing image.
func (s *Image) RGBA() *image.RGBA {
	return s.img
}

func (s *Image) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *Image) FillGradient(stops []Stop) {
	w, h := s.Size()
	for y := 0; y < h; y++ {
		c := GradientAt(stops, (float64(y)+0.5)/float64(h)).Opaque()
		draw.Draw(s.img, image.Rect(0, y, w, y+1), image.NewUniform(c), image.Point{}, draw.Src)
	}
}

// FillPolygon clips the polygon to the image and rasterizes it inside its
// pixel bounding box, so small shapes stay cheap on large images.
func (s *Image) FillPolygon(pts []mathutil.Vec2, c color.Color) {
	if len(pts) < 3 {
		return
	}
	w, h := s.Size()
	s.clip = clipToRect(s.clip[:0], pts, float64(w), float64(h))
	if len(s.clip) < 3 {
		return
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range s.clip {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	r := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
	if r.Empty() {
		return
	}

	s.z.Reset(r.Dx(), r.Dy())
	s.z.DrawOp = draw.Over
	ox, oy := float64(r.Min.X), float64(r.Min.Y)
	s.z.MoveTo(float32(s.clip[0].X-ox), float32(s.clip[0].Y-oy))
	for _, p := range s.clip[1:] {
		s.z.LineTo(float32(p.X-ox), float32(p.Y-oy))
	}
	s.z.ClosePath()
	s.z.Draw(s.img, r, image.NewUniform(c), image.Point{})
}

// StrokePolygon draws each edge of the closed outline as a quad of the given
// width. Corners are left unjoined, which is invisible at outline widths.
func (s *Image) StrokePolygon(pts []mathutil.Vec2, width float64, c color.Color) {
	if len(pts) < 2 {
		return
	}
	hw := width / 2
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		dx, dy := b.X-a.X, b.Y-a.Y
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*hw, dx/l*hw
		s.FillPolygon([]mathutil.Vec2{
			{X: a.X + nx, Y: a.Y + ny},
			{X: b.X + nx, Y: b.Y + ny},
			{X: b.X - nx, Y: b.Y - ny},
			{X: a.X - nx, Y: a.Y - ny},
		}, c)
	}
}

func (s *Image) FillRect(x, y, w, h float64, c color.Color) {
	s.FillPolygon([]mathutil.Vec2{
		{X: x, Y: y},
		{X: x + w, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
	}, c)
}

// clipToRect clips a polygon to [0,w]x[0,h] (Sutherland-Hodgman) and
// appends the result to dst.
func clipToRect(dst, pts []mathutil.Vec2, w, h float64) []mathutil.Vec2 {
	type edge struct {
		inside func(p mathutil.Vec2) bool
		cross  func(a, b mathutil.Vec2) mathutil.Vec2
	}
	atX := func(a, b mathutil.Vec2, x float64) mathutil.Vec2 {
		t := (x - a.X) / (b.X - a.X)
		return mathutil.Vec2{X: x, Y: a.Y + t*(b.Y-a.Y)}
	}
	atY := func(a, b mathutil.Vec2, y float64) mathutil.Vec2 {
		t := (y - a.Y) / (b.Y - a.Y)
		return mathutil.Vec2{X: a.X + t*(b.X-a.X), Y: y}
	}
	edges := [4]edge{
		{func(p mathutil.Vec2) bool { return p.X >= 0 }, func(a, b mathutil.Vec2) mathutil.Vec2 { return atX(a, b, 0) }},
		{func(p mathutil.Vec2) bool { return p.X <= w }, func(a, b mathutil.Vec2) mathutil.Vec2 { return atX(a, b, w) }},
		{func(p mathutil.Vec2) bool { return p.Y >= 0 }, func(a, b mathutil.Vec2) mathutil.Vec2 { return atY(a, b, 0) }},
		{func(p mathutil.Vec2) bool { return p.Y <= h }, func(a, b mathutil.Vec2) mathutil.Vec2 { return atY(a, b, h) }},
	}

	in := append([]mathutil.Vec2(nil), pts...)
	for _, e := range edges {
		if len(in) == 0 {
			break
		}
		var out []mathutil.Vec2
		prev := in[len(in)-1]
		for _, cur := range in {
			switch {
			case e.inside(cur) && e.inside(prev):
				out = append(out, cur)
			case e.inside(cur):
				out = append(out, e.cross(prev, cur), cur)
			case e.inside(prev):
				out = append(out, e.cross(prev, cur))
			}
			prev = cur
		}
		in = out
	}
	return append(dst, in...)
}
