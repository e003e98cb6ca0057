package engine

import (
	"testing"

	"alleycats/internal/mathutil"
	"alleycats/internal/rgb"
	"alleycats/internal/scene"
	"alleycats/internal/surface"
)

// bareOptions turns off everything except boxes and sprites.
func bareOptions() Options {
	o := DefaultOptions()
	o.GridSize = 0
	o.Fog = false
	o.Outlines = false
	o.Windows = false
	return o
}

func newTestRenderer(store *scene.Store) (*Renderer, *surface.Recorder) {
	r := NewRenderer(NewCamera(800, 600), store, nil)
	r.Options = bareOptions()
	return r, surface.NewRecorder(800, 600)
}

func faceNames(faces []Face) map[string]bool {
	names := make(map[string]bool, len(faces))
	for _, f := range faces {
		names[f.Name] = true
	}
	return names
}

func TestCullFacesFromAbove(t *testing.T) {
	pos, size := mathutil.V3(0, 0, 0), mathutil.V3(10, 10, 10)
	tests := []struct {
		name string
		eye  mathutil.Vec3
	}{
		{"straight above", mathutil.V3(5, 100, 5)},
		{"above and in front", mathutil.V3(5, 40, -60)},
		{"above and to the side", mathutil.V3(80, 15, 5)},
		{"above a corner", mathutil.V3(-30, 11, 40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names := faceNames(CullFaces(tt.eye, pos, size))
			if !names["top"] {
				t.Error("top face culled for a camera above the box")
			}
			if names["bottom"] {
				t.Error("bottom face kept for a camera above the box")
			}
		})
	}

	if got := CullFaces(mathutil.V3(5, 100, 5), pos, size); len(got) != 1 {
		t.Errorf("straight above kept %d faces, want only the top", len(got))
	}
}

func TestCullFacesNeverBothOpposites(t *testing.T) {
	pos, size := mathutil.V3(-3, 0, 7), mathutil.V3(6, 20, 4)
	eyes := []mathutil.Vec3{
		mathutil.V3(0, 5, -50), mathutil.V3(50, -5, 9), mathutil.V3(-40, 30, 40), mathutil.V3(0, 10, 9),
	}
	for _, eye := range eyes {
		names := faceNames(CullFaces(eye, pos, size))
		for _, pair := range [][2]string{{"top", "bottom"}, {"left", "right"}, {"front", "back"}} {
			if names[pair[0]] && names[pair[1]] {
				t.Errorf("eye %v sees both %s and %s", eye, pair[0], pair[1])
			}
		}
		if len(names) > 3 {
			t.Errorf("eye %v sees %d faces of a box", eye, len(names))
		}
	}
}

func TestSortFacesBackToFront(t *testing.T) {
	faces := []ProjectedFace{
		{Face: BoxFaces[0], Depth: 5},
		{Face: BoxFaces[1], Depth: 30},
		{Face: BoxFaces[2], Depth: 12},
		{Face: BoxFaces[3], Depth: 30},
	}
	SortFaces(faces)
	for i := 1; i < len(faces); i++ {
		if faces[i].Depth > faces[i-1].Depth {
			t.Fatalf("face %d (depth %v) drawn after nearer face (depth %v)", i, faces[i].Depth, faces[i-1].Depth)
		}
	}
	if faces[0].Face.Name != "bottom" || faces[1].Face.Name != "right" {
		t.Errorf("equal depths lost their order: %s, %s", faces[0].Face.Name, faces[1].Face.Name)
	}
}

func TestDrawBoxFacesAndShading(t *testing.T) {
	r, rec := newTestRenderer(scene.NewStore())
	r.Camera.Pos = mathutil.V3(5, 60, -40)
	r.Camera.Pitch = -0.8
	r.Camera.Yaw = 0
	base := rgb.Hex("#808080")

	if !r.DrawBox(rec, mathutil.V3(0, 0, 0), mathutil.V3(10, 10, 10), base, 1) {
		t.Fatal("box in view was skipped")
	}
	visible := CullFaces(r.Camera.Pos, mathutil.V3(0, 0, 0), mathutil.V3(10, 10, 10))
	if got := rec.Count(surface.OpFillPolygon); got != len(visible) {
		t.Errorf("filled %d faces, want %d", got, len(visible))
	}
	if rec.Count(surface.OpStrokePolygon) != 0 {
		t.Error("outlines drawn with outlines disabled")
	}

	shades := make(map[rgb.Color]bool)
	for _, f := range visible {
		shades[base.Darken(f.Shade)] = true
	}
	for _, op := range rec.Ops {
		c := rgb.Color{R: op.Color.R, G: op.Color.G, B: op.Color.B}
		if !shades[c] || op.Color.A != 255 {
			t.Errorf("face color %v is not a shade of %v", op.Color, base)
		}
	}

	st := r.Stats()
	if st.Boxes != 1 || st.FacesDrawn != len(visible) || st.FacesCulled != 6-len(visible) {
		t.Errorf("stats = %+v", st)
	}
}

func TestDrawBoxOpacityAndOutlines(t *testing.T) {
	r, rec := newTestRenderer(scene.NewStore())
	r.Options.Outlines = true
	r.Camera.Pos = mathutil.V3(5, 30, -40)
	r.Camera.Pitch = -0.5
	r.Camera.Yaw = 0

	r.DrawBox(rec, mathutil.V3(0, 0, 0), mathutil.V3(10, 10, 10), rgb.White, 0.5)
	if rec.Count(surface.OpStrokePolygon) != rec.Count(surface.OpFillPolygon) {
		t.Errorf("%d outlines for %d faces", rec.Count(surface.OpStrokePolygon), rec.Count(surface.OpFillPolygon))
	}
	for _, op := range rec.Ops {
		switch op.Kind {
		case surface.OpFillPolygon:
			if op.Color.A != 127 {
				t.Errorf("fill alpha = %d, want 127", op.Color.A)
			}
		case surface.OpStrokePolygon:
			if op.Color != r.Options.OutlineColor || op.Width != 1 {
				t.Errorf("outline = %+v", op)
			}
		}
	}
}

func TestDrawBoxBehindCameraIsSkipped(t *testing.T) {
	r, rec := newTestRenderer(scene.NewStore())
	r.Camera.Pos = mathutil.Vec3{}
	r.Camera.Pitch = 0
	r.Camera.Yaw = 0

	// Straddles the camera plane: some corners are behind the eye.
	if r.DrawBox(rec, mathutil.V3(-5, -5, -5), mathutil.V3(10, 10, 30), rgb.White, 1) {
		t.Error("box crossing the near plane was drawn")
	}
	if r.DrawBox(rec, mathutil.V3(-5, -5, -50), mathutil.V3(10, 10, 10), rgb.White, 1) {
		t.Error("box behind the camera was drawn")
	}
	if len(rec.Ops) != 0 {
		t.Errorf("skipped boxes issued %d draw calls", len(rec.Ops))
	}
	if r.Stats().BoxesSkipped != 2 {
		t.Errorf("BoxesSkipped = %d, want 2", r.Stats().BoxesSkipped)
	}
}
