package config

import (
	"fmt"
	"log"
	"math"
	"os"

	"alleycats/internal/engine"
	"alleycats/internal/mathutil"
	"alleycats/internal/rgb"
	"alleycats/internal/scene"
	"alleycats/internal/surface"

	"gopkg.in/yaml.v3"
)

// Config holds all renderer and viewer configuration values
type Config struct {
	Display  DisplayConfig  `yaml:"display"`
	Camera   CameraConfig   `yaml:"camera"`
	Controls ControlsConfig `yaml:"controls"`
	Grid     GridConfig     `yaml:"grid"`
	Graphics GraphicsConfig `yaml:"graphics"`
	Scene    SceneConfig    `yaml:"scene"`
	Sprite   SpriteConfig   `yaml:"sprite"`
	Server   ServerConfig   `yaml:"server"`
	Debug    DebugConfig    `yaml:"debug"`
}

type DisplayConfig struct {
	ScreenWidth  int    `yaml:"screen_width"`
	ScreenHeight int    `yaml:"screen_height"`
	WindowTitle  string `yaml:"window_title"`
	Resizable    bool   `yaml:"resizable"`
}

// Vec is a yaml-friendly world position or extent.
type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// V3 converts to the math type.
func (v Vec) V3() mathutil.Vec3 {
	return mathutil.V3(v.X, v.Y, v.Z)
}

type CameraConfig struct {
	Position    Vec     `yaml:"position"`
	Pitch       float64 `yaml:"pitch"`
	Yaw         float64 `yaml:"yaw"`
	FieldOfView float64 `yaml:"field_of_view"` // degrees
	Zoom        float64 `yaml:"zoom"`
	Near        float64 `yaml:"near"`
	Far         float64 `yaml:"far"`
	Isometric   bool    `yaml:"isometric"` // start in the isometric preset
}

type ControlsConfig struct {
	MoveSpeed     float64 `yaml:"move_speed"`     // world units per tick
	VerticalSpeed float64 `yaml:"vertical_speed"` // world units per tick
	DragRotate    float64 `yaml:"drag_rotate"`    // radians per pixel
	DragPan       float64 `yaml:"drag_pan"`       // world units per pixel
	ZoomStep      float64 `yaml:"zoom_step"`      // factor per wheel notch
}

type GridConfig struct {
	Size  float64   `yaml:"size"`
	Range float64   `yaml:"range"`
	Color rgb.Color `yaml:"color"`
	Alpha float64   `yaml:"alpha"`
}

type GraphicsConfig struct {
	Background      []surface.Stop `yaml:"background"`
	Fog             bool           `yaml:"fog"`
	FogColor        rgb.Color      `yaml:"fog_color"`
	FogAlpha        float64        `yaml:"fog_alpha"`
	Outlines        bool           `yaml:"outlines"`
	Windows         bool           `yaml:"windows"`
	SpriteWorldSize float64        `yaml:"sprite_world_size"`
	SpriteScale     float64        `yaml:"sprite_scale"`
	SpriteMinSize   float64        `yaml:"sprite_min_size"`
	BossScale       float64        `yaml:"boss_scale"`
}

type SceneConfig struct {
	City       CityConfig        `yaml:"city"`
	Buildings  []BuildingConfig  `yaml:"buildings"`
	Characters []CharacterConfig `yaml:"characters"`
	// Active is the character highlighted at start.
	Active string `yaml:"active"`
}

type CityConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Seed         int64   `yaml:"seed"`
	BlockRadius  int     `yaml:"block_radius"`
	BlockSpacing float64 `yaml:"block_spacing"`
	Infill       int     `yaml:"infill"`
}

type BuildingConfig struct {
	Position Vec       `yaml:"position"`
	Size     Vec       `yaml:"size"`
	Color    rgb.Color `yaml:"color"`
}

type CharacterConfig struct {
	ID       string     `yaml:"id"`
	Position Vec        `yaml:"position"`
	Tint     *rgb.Color `yaml:"tint,omitempty"`
	Boss     bool       `yaml:"boss"`
	Defeated bool       `yaml:"defeated"`
}

type SpriteConfig struct {
	// Path to a sprite document; empty uses the embedded cat.
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Addr           string `yaml:"addr"`
	RenderWorkers  int    `yaml:"render_workers"`
	SnapshotWidth  int    `yaml:"snapshot_width"`
	SnapshotHeight int    `yaml:"snapshot_height"`
}

type DebugConfig struct {
	PerfLog         bool `yaml:"perf_log"`
	PerfLogInterval int  `yaml:"perf_log_interval"` // ticks between perf log lines
}

// Default returns the built-in configuration. LoadConfig starts from it, so
// a config file only needs the values it changes.
func Default() *Config {
	opts := engine.DefaultOptions()
	city := scene.DefaultCity()
	return &Config{
		Display: DisplayConfig{
			ScreenWidth:  1280,
			ScreenHeight: 720,
			WindowTitle:  "Alley Cats",
			Resizable:    true,
		},
		Camera: CameraConfig{
			Position:    Vec{X: 0, Y: 25, Z: -25},
			Pitch:       -0.3,
			FieldOfView: 60,
			Zoom:        1,
			Near:        1,
			Far:         1000,
		},
		Controls: ControlsConfig{
			MoveSpeed:     2,
			VerticalSpeed: 1,
			DragRotate:    0.01,
			DragPan:       0.5,
			ZoomStep:      1.1,
		},
		Grid: GridConfig{
			Size:  opts.GridSize,
			Range: opts.GridRange,
			Color: rgb.Color{R: opts.GridColor.R, G: opts.GridColor.G, B: opts.GridColor.B},
			Alpha: 0.3,
		},
		Graphics: GraphicsConfig{
			Background:      opts.Background,
			Fog:             opts.Fog,
			FogColor:        rgb.Color{R: opts.FogColor.R, G: opts.FogColor.G, B: opts.FogColor.B},
			FogAlpha:        0.04,
			Outlines:        opts.Outlines,
			Windows:         opts.Windows,
			SpriteWorldSize: opts.SpriteWorldSize,
			SpriteScale:     opts.SpriteScale,
			SpriteMinSize:   opts.SpriteMinSize,
			BossScale:       opts.BossScale,
		},
		Scene: SceneConfig{
			City: CityConfig{
				Enabled:      true,
				Seed:         city.Seed,
				BlockRadius:  city.BlockRadius,
				BlockSpacing: city.BlockSpacing,
				Infill:       city.Infill,
			},
		},
		Server: ServerConfig{
			Addr:           ":8080",
			RenderWorkers:  2,
			SnapshotWidth:  800,
			SnapshotHeight: 600,
		},
		Debug: DebugConfig{
			PerfLogInterval: 300,
		},
	}
}

// LoadConfig loads the configuration from a yaml file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}
	config.normalize()
	return config, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	config, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return config
}

// normalize replaces values the renderer cannot work with by defaults.
func (c *Config) normalize() {
	def := Default()
	if c.Display.ScreenWidth <= 0 || c.Display.ScreenHeight <= 0 {
		log.Printf("Warning: invalid screen size %dx%d, using %dx%d",
			c.Display.ScreenWidth, c.Display.ScreenHeight, def.Display.ScreenWidth, def.Display.ScreenHeight)
		c.Display.ScreenWidth, c.Display.ScreenHeight = def.Display.ScreenWidth, def.Display.ScreenHeight
	}
	if c.Camera.FieldOfView <= 0 || c.Camera.FieldOfView >= 180 {
		log.Printf("Warning: field_of_view %v out of range, using %v", c.Camera.FieldOfView, def.Camera.FieldOfView)
		c.Camera.FieldOfView = def.Camera.FieldOfView
	}
	if c.Camera.Near <= 0 {
		log.Printf("Warning: near %v must be positive, using %v", c.Camera.Near, def.Camera.Near)
		c.Camera.Near = def.Camera.Near
	}
	if c.Camera.Far <= c.Camera.Near {
		log.Printf("Warning: far %v must exceed near %v, using %v", c.Camera.Far, c.Camera.Near, def.Camera.Far)
		c.Camera.Far = def.Camera.Far
	}
	c.Camera.Pitch = mathutil.Clamp(c.Camera.Pitch, engine.MinPitch, engine.MaxPitch)
	c.Camera.Zoom = mathutil.Clamp(c.Camera.Zoom, engine.MinZoom, engine.MaxZoom)
	// Zero hides the grid. Negative and non-finite sizes do too.
	if !(c.Grid.Size >= 0) || math.IsInf(c.Grid.Size, 0) {
		log.Printf("Warning: grid size %v is not usable, hiding the grid", c.Grid.Size)
		c.Grid.Size = 0
	}
	if len(c.Graphics.Background) == 0 {
		c.Graphics.Background = def.Graphics.Background
	}
	if c.Server.RenderWorkers <= 0 {
		c.Server.RenderWorkers = def.Server.RenderWorkers
	}
	if c.Server.SnapshotWidth <= 0 || c.Server.SnapshotHeight <= 0 {
		c.Server.SnapshotWidth, c.Server.SnapshotHeight = def.Server.SnapshotWidth, def.Server.SnapshotHeight
	}
	if c.Debug.PerfLogInterval <= 0 {
		c.Debug.PerfLogInterval = def.Debug.PerfLogInterval
	}
}

// Helper functions for easy access to commonly used values
func (c *Config) GetScreenWidth() int {
	return c.Display.ScreenWidth
}

func (c *Config) GetScreenHeight() int {
	return c.Display.ScreenHeight
}

func (c *Config) GetMoveSpeed() float64 {
	return c.Controls.MoveSpeed
}

func (c *Config) GetCameraFOV() float64 {
	return c.Camera.FieldOfView
}

func (c *Config) GetViewDistance() float64 {
	return c.Camera.Far
}

// NewCamera builds the starting camera for a viewport.
func (c *Config) NewCamera(width, height int) *engine.Camera {
	cam := engine.NewCamera(width, height)
	cam.Pos = c.Camera.Position.V3()
	cam.Pitch = c.Camera.Pitch
	cam.Yaw = c.Camera.Yaw
	cam.FOV = c.Camera.FieldOfView
	cam.Scale = c.Camera.Zoom
	cam.Near = c.Camera.Near
	cam.Far = c.Camera.Far
	if c.Camera.Isometric {
		cam.SetIsometric()
	}
	return cam
}

// EngineOptions converts the grid and graphics sections.
func (c *Config) EngineOptions() engine.Options {
	opts := engine.DefaultOptions()
	opts.GridSize = c.Grid.Size
	opts.GridRange = c.Grid.Range
	opts.GridColor = c.Grid.Color.RGBA(c.Grid.Alpha)
	opts.Background = c.Graphics.Background
	opts.Fog = c.Graphics.Fog
	opts.FogColor = c.Graphics.FogColor.RGBA(c.Graphics.FogAlpha)
	opts.Outlines = c.Graphics.Outlines
	opts.Windows = c.Graphics.Windows
	opts.SpriteWorldSize = c.Graphics.SpriteWorldSize
	opts.SpriteScale = c.Graphics.SpriteScale
	opts.SpriteMinSize = c.Graphics.SpriteMinSize
	opts.BossScale = c.Graphics.BossScale
	return opts
}

// BuildScene creates the scene store: the generated city (if enabled), the
// extra buildings and the character roster.
func (c *Config) BuildScene() (*scene.Store, error) {
	store := scene.NewStore()
	if c.Scene.City.Enabled {
		opts := scene.DefaultCity()
		opts.Seed = c.Scene.City.Seed
		opts.BlockRadius = c.Scene.City.BlockRadius
		opts.BlockSpacing = c.Scene.City.BlockSpacing
		opts.Infill = c.Scene.City.Infill
		scene.GenerateCity(store, opts)
	}
	for _, b := range c.Scene.Buildings {
		store.AddBuilding(b.Position.V3(), b.Size.V3(), b.Color)
	}
	for _, ch := range c.Scene.Characters {
		var status scene.Status
		if ch.Boss {
			status |= scene.StatusBoss
		}
		if ch.Defeated {
			status |= scene.StatusDefeated
		}
		obj, err := store.AddCharacter(ch.ID, ch.Position.V3(), rgb.White, status)
		if err != nil {
			return nil, fmt.Errorf("character %q: %w", ch.ID, err)
		}
		if ch.Tint != nil {
			obj.Tint, obj.HasTint = *ch.Tint, true
		}
	}
	return store, nil
}
