package main

import (
	"log"

	"alleycats/internal/config"
	"alleycats/internal/game"
	"alleycats/internal/sprite"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	// Load configuration
	cfg := config.MustLoadConfig("config.yaml")

	// Load the character sprite, falling back to the built-in cat
	spr, err := sprite.LoadOrDefault(cfg.Sprite.Path)
	if err != nil {
		log.Printf("Warning: Failed to load sprite %q: %v", cfg.Sprite.Path, err)
	}

	// Build the city and the character roster
	store, err := cfg.BuildScene()
	if err != nil {
		log.Fatal(err)
	}

	// Set window properties from config
	ebiten.SetWindowSize(cfg.GetScreenWidth(), cfg.GetScreenHeight())
	ebiten.SetWindowTitle(cfg.Display.WindowTitle)
	if cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	g := game.NewGame(cfg, store, spr)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
