package surface

import (
	"image"
	"image/color"

	"alleycats/internal/mathutil"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Ebiten draws onto an ebiten image, normally the screen passed to Draw.
type Ebiten struct {
	dst   *ebiten.Image
	white *ebiten.Image

	// Gradient strip cache; rebuilt when the height or stops change.
	gradient      *ebiten.Image
	gradientH     int
	gradientStops []Stop

	vertices []ebiten.Vertex
	indices  []uint16
}

// NewEbiten creates a surface. Call Target before drawing each frame.
func NewEbiten() *Ebiten {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	return &Ebiten{
		white: white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
	}
}

// Target sets the image to draw on.
func (s *Ebiten) Target(dst *ebiten.Image) {
	s.dst = dst
}

func (s *Ebiten) Size() (int, int) {
	b := s.dst.Bounds()
	return b.Dx(), b.Dy()
}

func (s *Ebiten) FillGradient(stops []Stop) {
	_, h := s.Size()
	if h <= 0 {
		return
	}
	if s.gradient == nil || s.gradientH != h || !sameStops(s.gradientStops, stops) {
		strip := image.NewRGBA(image.Rect(0, 0, 1, h))
		for y := 0; y < h; y++ {
			strip.Set(0, y, GradientAt(stops, (float64(y)+0.5)/float64(h)).Opaque())
		}
		if s.gradient != nil {
			s.gradient.Deallocate()
		}
		s.gradient = ebiten.NewImageFromImage(strip)
		s.gradientH = h
		s.gradientStops = append(s.gradientStops[:0], stops...)
	}

	w, _ := s.Size()
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(w), 1)
	s.dst.DrawImage(s.gradient, opts)
}

// FillPolygon fans the polygon into triangles. Projected box faces are
// convex, so the fan covers them exactly.
func (s *Ebiten) FillPolygon(pts []mathutil.Vec2, c color.Color) {
	if len(pts) < 3 {
		return
	}
	cr, cg, cb, ca := straight(c)
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
	for _, p := range pts {
		s.vertices = append(s.vertices, ebiten.Vertex{
			DstX:   float32(p.X),
			DstY:   float32(p.Y),
			SrcX:   1,
			SrcY:   1,
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		})
	}
	for i := 2; i < len(pts); i++ {
		s.indices = append(s.indices, 0, uint16(i-1), uint16(i))
	}
	s.dst.DrawTriangles(s.vertices, s.indices, s.white, &ebiten.DrawTrianglesOptions{})
}

func (s *Ebiten) StrokePolygon(pts []mathutil.Vec2, width float64, c color.Color) {
	if len(pts) < 2 {
		return
	}
	var path vector.Path
	path.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		path.LineTo(float32(p.X), float32(p.Y))
	}
	path.Close()

	s.vertices, s.indices = path.AppendVerticesAndIndicesForStroke(s.vertices[:0], s.indices[:0], &vector.StrokeOptions{
		Width:    float32(width),
		LineJoin: vector.LineJoinMiter,
	})
	cr, cg, cb, ca := straight(c)
	for i := range s.vertices {
		s.vertices[i].SrcX = 1
		s.vertices[i].SrcY = 1
		s.vertices[i].ColorR = cr
		s.vertices[i].ColorG = cg
		s.vertices[i].ColorB = cb
		s.vertices[i].ColorA = ca
	}
	s.dst.DrawTriangles(s.vertices, s.indices, s.white, &ebiten.DrawTrianglesOptions{})
}

func (s *Ebiten) FillRect(x, y, w, h float64, c color.Color) {
	vector.DrawFilledRect(s.dst, float32(x), float32(y), float32(w), float32(h), c, false)
}

// straight returns non-premultiplied components in [0,1].
func straight(c color.Color) (r, g, b, a float32) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return float32(n.R) / 255, float32(n.G) / 255, float32(n.B) / 255, float32(n.A) / 255
}

func sameStops(a, b []Stop) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
