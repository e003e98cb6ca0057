// Package keytracker reports key presses once per press, for toggles that
// must not repeat while a key is held.
package keytracker

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Tracker remembers last tick's state for each key it has been asked about.
type Tracker struct {
	prev    map[ebiten.Key]bool
	pressed func(ebiten.Key) bool
}

// New creates a tracker that polls ebiten.
func New() *Tracker {
	return NewWithPoll(ebiten.IsKeyPressed)
}

// NewWithPoll creates a tracker that polls key state through pressed.
func NewWithPoll(pressed func(ebiten.Key) bool) *Tracker {
	return &Tracker{prev: make(map[ebiten.Key]bool), pressed: pressed}
}

// JustPressed returns true if key is down now but was up on the previous call
// for the same key.
func (t *Tracker) JustPressed(key ebiten.Key) bool {
	down := t.pressed(key)
	was := t.prev[key]
	t.prev[key] = down
	return down && !was
}
