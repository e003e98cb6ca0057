package engine

import (
	"testing"

	"alleycats/internal/mathutil"
	"alleycats/internal/rgb"
	"alleycats/internal/scene"
	"alleycats/internal/sprite"
	"alleycats/internal/surface"
)

func TestRecolorPolicies(t *testing.T) {
	base := rgb.Hex("#f07010")
	fur := rgb.Hex("#a04808")
	grey := rgb.Hex("#808080")
	orange := rgb.Hex("#ff8000")

	tests := []struct {
		name string
		obj  scene.Object
		in   rgb.Color
		want rgb.Color
	}{
		{"untinted", scene.Object{}, fur, fur},
		{"grey tint blends strongly", scene.Object{Tint: grey, HasTint: true}, fur, fur.Blend(grey, GreyTintStrength)},
		{"color tint blends moderately", scene.Object{Tint: orange, HasTint: true}, fur, fur.Blend(orange, ColorTintStrength)},
		{"base hue pixel is replaced", scene.Object{Tint: orange, HasTint: true}, base, orange},
		{"tint equal to base hue is ignored", scene.Object{Tint: base, HasTint: true}, fur, fur},
		{"disabled tint is ignored", scene.Object{Tint: grey}, fur, fur},
		{"defeated bleaches", scene.Object{Status: scene.StatusDefeated, Tint: grey, HasTint: true}, fur, fur.Bleach()},
		{"defeated wins over boss", scene.Object{Status: scene.StatusDefeated | scene.StatusBoss}, fur, fur.Bleach()},
		{"boss darkens and ignores tint", scene.Object{Status: scene.StatusBoss, Tint: grey, HasTint: true}, fur, fur.Shadow()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := tt.obj
			if got := Recolor(tt.in, &obj, base); got != tt.want {
				t.Errorf("Recolor(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if fur.Blend(grey, GreyTintStrength) == fur.Blend(grey, ColorTintStrength) {
		t.Fatal("grey and color strengths are indistinguishable")
	}
}

func TestTintMovesTowardTint(t *testing.T) {
	fur := rgb.Hex("#a04808")
	for _, tint := range []rgb.Color{rgb.Hex("#808080"), rgb.Hex("#ff8000"), rgb.Hex("#44ffff")} {
		prev := colorDistance(fur, tint)
		for _, s := range []float64{0.2, 0.4, ColorTintStrength, 0.7, GreyTintStrength, 1} {
			d := colorDistance(fur.Blend(tint, s), tint)
			if d > prev {
				t.Errorf("tint %v: strength %v moved away (%d > %d)", tint, s, d, prev)
			}
			prev = d
		}
	}
}

// spriteCamera looks at the cell around the origin from 40 units back.
func spriteCamera(r *Renderer) {
	r.Camera.Pos = mathutil.V3(2.5, 10, -40)
	r.Camera.Pitch = 0
	r.Camera.Yaw = 0
}

func opaquePixels(s *sprite.Sprite, rows, colStart int) int {
	n := 0
	for row := 0; row < rows; row++ {
		for col := colStart; col < s.Size; col++ {
			if _, ok := s.At(row, col); ok {
				n++
			}
		}
	}
	return n
}

func TestDrawCharacterPixels(t *testing.T) {
	spr := sprite.Default()
	all := opaquePixels(spr, spr.Size, 0)
	head := opaquePixels(spr, headRowEnd, headColStart) - opaquePixels(spr, headRowStart, headColStart)

	tests := []struct {
		name   string
		status scene.Status
		want   int
		eyes   rgb.Color
	}{
		{"alive", 0, all, rgb.Color{}},
		{"defeated head crop", scene.StatusDefeated, head + 2, rgb.Black},
		{"boss", scene.StatusBoss, all + 2, rgb.Yellow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, rec := newTestRenderer(scene.NewStore())
			spriteCamera(r)
			o := &scene.Object{ID: "cat", Kind: scene.KindCharacter, Size: scene.CharacterSize, Status: tt.status}
			if !r.DrawCharacter(rec, o) {
				t.Fatal("character in view was not drawn")
			}
			if got := rec.Count(surface.OpFillRect); got != tt.want {
				t.Errorf("drew %d rects, want %d", got, tt.want)
			}
			if tt.status == 0 {
				return
			}
			for _, op := range rec.Ops[len(rec.Ops)-2:] {
				if c := (rgb.Color{R: op.Color.R, G: op.Color.G, B: op.Color.B}); c != tt.eyes {
					t.Errorf("eye color = %v, want %v", c, tt.eyes)
				}
			}
		})
	}
}

func TestSpriteSizeShrinksWithDistance(t *testing.T) {
	r, _ := newTestRenderer(scene.NewStore())
	spriteCamera(r)
	near := &scene.Object{Kind: scene.KindCharacter, Pos: mathutil.V3(0, 0, 0), Size: scene.CharacterSize}
	far := &scene.Object{Kind: scene.KindCharacter, Pos: mathutil.V3(0, 0, 200), Size: scene.CharacterSize}
	horizon := &scene.Object{Kind: scene.KindCharacter, Pos: mathutil.V3(0, 0, 900), Size: scene.CharacterSize}

	pn, _ := r.place(near)
	pf, _ := r.place(far)
	ph, _ := r.place(horizon)
	if pn.size <= pf.size {
		t.Errorf("near size %v not larger than far size %v", pn.size, pf.size)
	}
	if ph.size != r.Options.SpriteMinSize {
		t.Errorf("distant sprite size = %v, want floor %v", ph.size, r.Options.SpriteMinSize)
	}
	// Both share the column, so they share the anchor x.
	if pn.ground.X != pf.ground.X {
		t.Errorf("same column projected to x %v and %v", pn.ground.X, pf.ground.X)
	}
}

func TestPlacementSnapsToCell(t *testing.T) {
	r, _ := newTestRenderer(scene.NewStore())
	spriteCamera(r)
	a := &scene.Object{Kind: scene.KindCharacter, Pos: mathutil.V3(0.2, 0, 0.4), Size: scene.CharacterSize}
	b := &scene.Object{Kind: scene.KindCharacter, Pos: mathutil.V3(4.9, 0, 4.1), Size: scene.CharacterSize}
	pa, _ := r.place(a)
	pb, _ := r.place(b)
	if pa != pb {
		t.Errorf("positions in one cell placed differently: %+v vs %+v", pa, pb)
	}

	boss := &scene.Object{Kind: scene.KindCharacter, Status: scene.StatusBoss, Size: scene.BossSize}
	pboss, _ := r.place(boss)
	if w := pboss.cell[1].X - pboss.cell[0].X; w != 2*r.Options.GridSize {
		t.Errorf("boss cell width = %v, want %v", w, 2*r.Options.GridSize)
	}
	if pboss.top <= pboss.ground.Y-pboss.size {
		t.Error("boss sprite not shifted down")
	}
	regular := &scene.Object{Kind: scene.KindCharacter, Pos: mathutil.V3(2.5, 0, 2.5), Size: scene.CharacterSize}
	preg, _ := r.place(regular)
	if pboss.size <= preg.size {
		t.Errorf("boss size %v not larger than regular %v", pboss.size, preg.size)
	}
}

func TestDrawCharacterFarClip(t *testing.T) {
	r, rec := newTestRenderer(scene.NewStore())
	spriteCamera(r)
	r.Camera.Far = 100
	o := &scene.Object{Kind: scene.KindCharacter, Pos: mathutil.V3(0, 0, 200), Size: scene.CharacterSize}
	if r.DrawCharacter(rec, o) {
		t.Error("character beyond the far plane was drawn")
	}
	if len(rec.Ops) != 0 || r.Stats().FarClipped != 1 {
		t.Errorf("ops = %d, stats = %+v", len(rec.Ops), r.Stats())
	}
}

func TestActiveHighlight(t *testing.T) {
	for _, defeated := range []bool{false, true} {
		r, rec := newTestRenderer(scene.NewStore())
		spriteCamera(r)
		o := &scene.Object{ID: "cat-2", Kind: scene.KindCharacter, Size: scene.CharacterSize}
		want := highlightAlive
		if defeated {
			o.Status = scene.StatusDefeated
			want = highlightDefeated
		}
		r.SetActive("cat-2")
		r.DrawCharacter(rec, o)

		if len(rec.Ops) < 2 || rec.Ops[0].Kind != surface.OpFillPolygon || rec.Ops[1].Kind != surface.OpStrokePolygon {
			t.Fatalf("defeated=%v: highlight not drawn before the sprite", defeated)
		}
		glow, ring := rec.Ops[0].Color, rec.Ops[1].Color
		if (rgb.Color{R: ring.R, G: ring.G, B: ring.B}) != want || ring.A != 204 || glow.A != 25 {
			t.Errorf("defeated=%v: glow %v ring %v", defeated, glow, ring)
		}
		if rec.Ops[1].Width != r.Options.HighlightWidth {
			t.Errorf("ring width = %v", rec.Ops[1].Width)
		}

		rec.Reset()
		r.SetActive("")
		r.DrawCharacter(rec, o)
		if rec.Count(surface.OpFillPolygon) != 0 {
			t.Errorf("defeated=%v: highlight drawn after clearing the active id", defeated)
		}
	}
}

// colorDistance is the squared euclidean distance between two colors.
func colorDistance(a, b rgb.Color) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}
