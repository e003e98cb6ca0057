package surface

import (
	"image/color"

	"alleycats/internal/mathutil"
)

// OpKind identifies a recorded draw call.
type OpKind uint8

const (
	OpGradient OpKind = iota
	OpFillPolygon
	OpStrokePolygon
	OpFillRect
)

// Op is one recorded draw call.
type Op struct {
	Kind   OpKind
	Points []mathutil.Vec2
	Color  color.NRGBA
	Width  float64
}

// Recorder is a Surface that keeps every call in order instead of drawing.
// It is used to check painter's-algorithm ordering.
type Recorder struct {
	W, H int
	Ops  []Op
}

// NewRecorder creates a recorder with the given viewport.
func NewRecorder(w, h int) *Recorder {
	return &Recorder{W: w, H: h}
}

func (r *Recorder) Size() (int, int) { return r.W, r.H }

func (r *Recorder) FillGradient(stops []Stop) {
	r.Ops = append(r.Ops, Op{Kind: OpGradient})
}

func (r *Recorder) FillPolygon(pts []mathutil.Vec2, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpFillPolygon, Points: append([]mathutil.Vec2(nil), pts...), Color: nrgba(c)})
}

func (r *Recorder) StrokePolygon(pts []mathutil.Vec2, width float64, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokePolygon, Points: append([]mathutil.Vec2(nil), pts...), Color: nrgba(c), Width: width})
}

func (r *Recorder) FillRect(x, y, w, h float64, c color.Color) {
	r.Ops = append(r.Ops, Op{
		Kind:   OpFillRect,
		Points: []mathutil.Vec2{{X: x, Y: y}, {X: x + w, Y: y + h}},
		Color:  nrgba(c),
	})
}

// Reset drops recorded calls.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}

// Count returns how many calls of kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

func nrgba(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
