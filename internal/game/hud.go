package game

import (
	"fmt"
	"image/color"
	"math"

	"alleycats/internal/engine"
	"alleycats/internal/mathutil"
	"alleycats/internal/rgb"
	"alleycats/internal/surface"

	"github.com/hajimehoshi/ebiten/v2"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// Turn arrow geometry in pixels.
const (
	arrowGap   = 6.0
	arrowWidth = 16.0
	arrowDepth = 14.0
)

var (
	arrowFill    = rgb.Yellow.Opaque()
	arrowOutline = color.NRGBA{A: 255}
	panelColor   = color.RGBA{0, 0, 0, 140}
	textColor    = color.RGBA{220, 220, 240, 255}
)

// HUD draws the turn marker and the status panel over the 3D view.
type HUD struct {
	game *Game
}

// NewHUD creates the overlay for g.
func NewHUD(g *Game) *HUD {
	return &HUD{game: g}
}

// TurnArrow returns the downward-pointing marker that sits above an anchor.
func TurnArrow(a engine.Anchor) []mathutil.Vec2 {
	tip := a.Y - arrowGap
	return []mathutil.Vec2{
		{X: a.X - arrowWidth/2, Y: tip - arrowDepth},
		{X: a.X + arrowWidth/2, Y: tip - arrowDepth},
		{X: a.X, Y: tip},
	}
}

// DrawMarker draws the turn arrow over the active character. Nothing is
// drawn while the character's cell is off the view.
func (h *HUD) DrawMarker(s surface.Surface) bool {
	r := h.game.renderer
	a, ok := r.Anchor(r.Active())
	if !ok || !a.Visible {
		return false
	}
	pts := TurnArrow(a)
	s.FillPolygon(pts, arrowFill)
	s.StrokePolygon(pts, 1, arrowOutline)
	return true
}

// StatusLines returns the panel text.
func (h *HUD) StatusLines() []string {
	g := h.game
	cam := g.camera
	st := g.renderer.Stats()

	active := "none"
	if obj, ok := g.scene.Get(g.renderer.Active()); ok {
		active = obj.ID
		switch {
		case obj.Boss() && obj.Defeated():
			active += " (boss, defeated)"
		case obj.Boss():
			active += " (boss)"
		case obj.Defeated():
			active += " (defeated)"
		}
	}

	return []string{
		fmt.Sprintf("Active: %s", active),
		fmt.Sprintf("Camera: %.0f, %.0f, %.0f  pitch %.0f  yaw %.0f  zoom %.2f",
			cam.Pos.X, cam.Pos.Y, cam.Pos.Z, degrees(cam.Pitch), degrees(cam.Yaw), cam.Scale),
		fmt.Sprintf("Buildings: %d  Faces: %d  Characters: %d  Hidden: %d",
			st.Boxes, st.FacesDrawn, st.Characters, st.Occluded),
		fmt.Sprintf("FPS: %.0f", ebiten.ActualFPS()),
		"WASD/QE move  drag look/pan  wheel zoom  I iso  Tab next  X defeat  H hud",
	}
}

// Draw renders the overlay onto screen.
func (h *HUD) Draw(screen *ebiten.Image) {
	h.DrawMarker(h.game.surface)

	face := basicfont.Face7x13
	lines := h.StatusLines()
	lineH := face.Metrics().Height.Ceil() + 2
	panelW := 0
	for _, l := range lines {
		panelW = max(panelW, len(l)*7)
	}
	vector.DrawFilledRect(screen, 4, 4, float32(panelW+12), float32(len(lines)*lineH+8), panelColor, false)
	for i, l := range lines {
		ebitext.Draw(screen, l, face, 10, 8+face.Ascent+i*lineH, textColor)
	}
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
