package game

import (
	"alleycats/internal/config"
	"alleycats/internal/engine"
	"alleycats/internal/game/keytracker"
	"alleycats/internal/mathutil"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Controls is one tick of viewer input.
type Controls struct {
	Forward, Back, Left, Right bool
	Up, Down                   bool

	// Mouse drags in pixels since the last tick.
	Rotate mathutil.Vec2 // left button
	Pan    mathutil.Vec2 // right button
	Wheel  float64

	Isometric      bool
	NextTarget     bool
	ToggleDefeated bool
	ToggleHUD      bool
	TogglePerf     bool
}

// ApplyCamera moves cam by one tick of input. WASD moves on the ground plane
// relative to the view direction, Q/E move vertically, a left drag looks
// around, a right drag pans and the wheel zooms.
func ApplyCamera(cam *engine.Camera, in Controls, ctl config.ControlsConfig) {
	var move mathutil.Vec3
	if in.Forward {
		move = move.Add(cam.Forward())
	}
	if in.Back {
		move = move.Sub(cam.Forward())
	}
	if in.Right {
		move = move.Add(cam.Right())
	}
	if in.Left {
		move = move.Sub(cam.Right())
	}
	move = move.Scale(ctl.MoveSpeed)
	if in.Up {
		move.Y += ctl.VerticalSpeed
	}
	if in.Down {
		move.Y -= ctl.VerticalSpeed
	}
	if move != (mathutil.Vec3{}) {
		cam.Move(move.X, move.Y, move.Z)
	}

	if in.Rotate != (mathutil.Vec2{}) {
		cam.Rotate(-in.Rotate.Y*ctl.DragRotate, in.Rotate.X*ctl.DragRotate)
	}
	if in.Pan != (mathutil.Vec2{}) {
		right := cam.Right()
		cam.Move(right.X*in.Pan.X*ctl.DragPan, -in.Pan.Y*ctl.DragPan, right.Z*in.Pan.X*ctl.DragPan)
	}

	switch {
	case in.Wheel > 0:
		cam.Zoom(ctl.ZoomStep)
	case in.Wheel < 0:
		cam.Zoom(1 / ctl.ZoomStep)
	}

	if in.Isometric {
		cam.SetIsometric()
	}
}

// InputHandler handles all user input for the viewer
type InputHandler struct {
	game *Game
	keys *keytracker.Tracker

	lastX, lastY int
}

// NewInputHandler creates a new input handler
func NewInputHandler(game *Game) *InputHandler {
	return &InputHandler{game: game, keys: keytracker.New()}
}

// HandleInput reads this tick's input and applies it.
func (ih *InputHandler) HandleInput() {
	in := ih.read()
	ApplyCamera(ih.game.camera, in, ih.game.config.Controls)

	if in.NextTarget {
		ih.game.CycleActive()
	}
	if in.ToggleDefeated {
		ih.game.ToggleDefeated()
	}
	if in.ToggleHUD {
		ih.game.showHUD = !ih.game.showHUD
	}
	if in.TogglePerf {
		ih.game.SetPerfLog(!ih.game.perfLogEnabled)
	}
}

func (ih *InputHandler) read() Controls {
	in := Controls{
		Forward: ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp),
		Back:    ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown),
		Left:    ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft),
		Right:   ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight),
		Up:      ebiten.IsKeyPressed(ebiten.KeyQ),
		Down:    ebiten.IsKeyPressed(ebiten.KeyE),

		Isometric:      ih.keys.JustPressed(ebiten.KeyI),
		NextTarget:     ih.keys.JustPressed(ebiten.KeyTab),
		ToggleDefeated: ih.keys.JustPressed(ebiten.KeyX),
		ToggleHUD:      ih.keys.JustPressed(ebiten.KeyH),
		TogglePerf:     ih.keys.JustPressed(ebiten.KeyF3),
	}

	x, y := ebiten.CursorPosition()
	delta := mathutil.Vec2{X: float64(x - ih.lastX), Y: float64(y - ih.lastY)}
	ih.lastX, ih.lastY = x, y
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		in.Rotate = delta
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) && !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		in.Pan = delta
	}
	_, in.Wheel = ebiten.Wheel()
	return in
}
