// Package game is the interactive viewer: it owns the scene, steers the
// camera from keyboard and mouse, and draws each frame through the engine.
package game

import (
	"log"

	"alleycats/internal/config"
	"alleycats/internal/engine"
	"alleycats/internal/monitoring"
	"alleycats/internal/scene"
	"alleycats/internal/sprite"
	"alleycats/internal/surface"

	"github.com/hajimehoshi/ebiten/v2"
)

// Game implements ebiten.Game for the city viewer.
type Game struct {
	config   *config.Config
	scene    *scene.Store
	camera   *engine.Camera
	renderer *engine.Renderer
	surface  *surface.Ebiten
	input    *InputHandler
	hud      *HUD
	monitor  *monitoring.PerformanceMonitor

	// UI state
	showHUD        bool
	perfLogEnabled bool
	ticks          int
}

// NewGame wires the renderer to the scene and the configured camera.
func NewGame(cfg *config.Config, store *scene.Store, spr *sprite.Sprite) *Game {
	cam := cfg.NewCamera(cfg.GetScreenWidth(), cfg.GetScreenHeight())
	r := engine.NewRenderer(cam, store, spr)
	r.Options = cfg.EngineOptions()

	g := &Game{
		config:         cfg,
		scene:          store,
		camera:         cam,
		renderer:       r,
		surface:        surface.NewEbiten(),
		monitor:        monitoring.NewPerformanceMonitor(),
		showHUD:        true,
		perfLogEnabled: cfg.Debug.PerfLog,
	}
	g.monitor.EnableDetailedLogging(g.perfLogEnabled)
	g.input = NewInputHandler(g)
	g.hud = NewHUD(g)

	if id := cfg.Scene.Active; id != "" {
		if obj, ok := store.Get(id); ok && obj.IsCharacter() {
			r.SetActive(id)
		} else {
			log.Printf("Warning: active character %q not in scene", id)
		}
	}
	if r.Active() == "" {
		g.CycleActive()
	}
	return g
}

// Update handles input and periodic logging for one tick.
func (g *Game) Update() error {
	g.input.HandleInput()
	g.ticks++
	g.maybeLogPerf()
	return nil
}

// Draw renders the scene and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	frameTimer := g.monitor.StartFrame()
	g.surface.Target(screen)
	g.renderer.Render(g.surface)
	frameTimer.EndFrame()
	g.monitor.RecordRender(g.renderer.Stats())

	if g.showHUD {
		g.hud.Draw(screen)
	}
}

// Layout returns the screen dimensions
func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.config.GetScreenWidth(), g.config.GetScreenHeight()
}

// CycleActive moves the highlight to the next character that is not
// defeated, in scene order. It returns the new active ID, which is empty
// when no character qualifies.
func (g *Game) CycleActive() string {
	chars := g.scene.Characters()
	current := g.renderer.Active()
	start := -1
	for i, c := range chars {
		if c.ID == current {
			start = i
			break
		}
	}
	for step := 1; step <= len(chars); step++ {
		c := chars[(start+step+len(chars))%len(chars)]
		if !c.Defeated() {
			g.renderer.SetActive(c.ID)
			return c.ID
		}
	}
	if start < 0 {
		g.renderer.SetActive("")
	}
	return g.renderer.Active()
}

// ToggleDefeated flips the defeated flag of the active character.
func (g *Game) ToggleDefeated() {
	id := g.renderer.Active()
	obj, ok := g.scene.Get(id)
	if !ok {
		return
	}
	if err := g.scene.SetStatus(id, obj.Status^scene.StatusDefeated); err != nil {
		log.Printf("Warning: %v", err)
	}
}

// Camera returns the viewer camera.
func (g *Game) Camera() *engine.Camera {
	return g.camera
}
