package engine

import (
	"math"

	"alleycats/internal/mathutil"
	"alleycats/internal/rgb"
	"alleycats/internal/scene"
	"alleycats/internal/surface"
)

// Tint blend strengths. Grey tints need the stronger blend to hide the
// sprite's own hue.
const (
	GreyTintStrength  = 0.85
	ColorTintStrength = 0.6
)

// Head crop used for defeated characters, in sprite pixels of a 32x32 sprite.
const (
	headRowStart = 2
	headRowEnd   = 16
	headColStart = 8
)

// Eye rectangles, in sprite pixels.
const (
	eyeLeftCol  = 14
	eyeRightCol = 22
	eyeRow      = 10
	eyeW        = 4
	eyeH        = 3
)

// Highlight colors for the active character's ground cell.
var (
	highlightAlive    = rgb.Color{R: 255, G: 255}
	highlightDefeated = rgb.Color{R: 100, G: 100, B: 100}
)

// Recolor resolves the draw color of one sprite pixel for a character. The
// policies are exclusive and checked in order: defeated, boss, tint.
func Recolor(c rgb.Color, o *scene.Object, baseHue rgb.Color) rgb.Color {
	switch {
	case o.Defeated():
		return c.Bleach()
	case o.Boss():
		return c.Shadow()
	case o.HasTint && o.Tint != baseHue:
		return TintPixel(c, o.Tint, baseHue)
	}
	return c
}

// TintPixel applies tint to a non-base pixel by blending, and replaces
// base-hue pixels outright.
func TintPixel(c, tint, baseHue rgb.Color) rgb.Color {
	if c == baseHue {
		return tint
	}
	if tint.IsGrey() {
		return c.Blend(tint, GreyTintStrength)
	}
	return c.Blend(tint, ColorTintStrength)
}

// placement is where a character's billboard lands on screen this frame.
type placement struct {
	cell   [4]mathutil.Vec3 // ground cell corners
	ground Point            // projected cell centre
	size   float64
	left   float64
	top    float64
}

// place snaps o to its ground cell and sizes the sprite by depth. ok is false
// when the cell centre is not visible.
func (r *Renderer) place(o *scene.Object) (placement, bool) {
	opts := r.Options
	step := opts.cellSize()
	cell := step
	world := opts.SpriteWorldSize
	if o.Boss() {
		cell *= opts.BossScale
		world *= opts.BossScale
	}
	gx := mathutil.SnapDown(o.Pos.X, step)
	gz := mathutil.SnapDown(o.Pos.Z, step)

	pt, ok := r.Camera.Project(mathutil.V3(gx+cell/2, 0, gz+cell/2))
	if !ok {
		return placement{}, false
	}

	size := math.Max(opts.SpriteMinSize, world*opts.SpriteScale/pt.Depth*r.Camera.Scale)
	top := pt.Y - size
	if o.Boss() {
		top += size * opts.BossOffset
	}
	if o.Defeated() {
		top += size * opts.DefeatedOffset
	}
	return placement{
		cell: [4]mathutil.Vec3{
			mathutil.V3(gx, 0, gz),
			mathutil.V3(gx+cell, 0, gz),
			mathutil.V3(gx+cell, 0, gz+cell),
			mathutil.V3(gx, 0, gz+cell),
		},
		ground: pt,
		size:   size,
		left:   pt.X - size/2,
		top:    top,
	}, true
}

// DrawCharacter paints o as a camera-facing sprite on its ground cell. It
// reports whether the sprite was drawn; characters beyond the far plane or
// with an invisible cell are skipped.
func (r *Renderer) DrawCharacter(s surface.Surface, o *scene.Object) bool {
	if o.Center().Dist(r.Camera.Pos) > r.Camera.Far {
		r.stats.FarClipped++
		return false
	}
	pl, ok := r.place(o)
	if !ok {
		return false
	}
	if o.ID == r.active {
		r.drawHighlight(s, o, pl)
	}

	spr := r.Sprite
	px := pl.size / float64(spr.Size)
	rowStart, rowEnd, colStart := 0, spr.Size, 0
	if o.Defeated() {
		rowStart, rowEnd, colStart = headRowStart, min(headRowEnd, spr.Size), headColStart
	}
	for row := rowStart; row < rowEnd; row++ {
		for col := colStart; col < spr.Size; col++ {
			c, ok := spr.At(row, col)
			if !ok {
				continue
			}
			s.FillRect(pl.left+float64(col)*px, pl.top+float64(row)*px, px, px, Recolor(c, o, spr.BaseHue).Opaque())
			r.stats.SpritePixels++
		}
	}

	switch {
	case o.Defeated():
		r.drawEyes(s, pl, px, rgb.Black)
	case o.Boss():
		r.drawEyes(s, pl, px, rgb.Yellow)
	}
	r.stats.Characters++
	return true
}

func (r *Renderer) drawEyes(s surface.Surface, pl placement, px float64, c rgb.Color) {
	y := pl.top + eyeRow*px
	for _, col := range [2]float64{eyeLeftCol, eyeRightCol} {
		s.FillRect(pl.left+col*px, y, eyeW*px, eyeH*px, c.Opaque())
	}
}

// drawHighlight marks the active character's ground cell.
func (r *Renderer) drawHighlight(s surface.Surface, o *scene.Object, pl placement) {
	var pts [4]Point
	if !r.Camera.projectAll(pl.cell[:], pts[:]) {
		return
	}
	poly := make([]mathutil.Vec2, 4)
	for i, p := range pts {
		poly[i] = p.XY()
	}
	c := highlightAlive
	if o.Defeated() {
		c = highlightDefeated
	}
	s.FillPolygon(poly, c.RGBA(0.1))
	s.StrokePolygon(poly, r.Options.HighlightWidth, c.RGBA(0.8))
}
