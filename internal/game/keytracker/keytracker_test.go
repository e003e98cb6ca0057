package keytracker

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestJustPressed(t *testing.T) {
	down := map[ebiten.Key]bool{}
	tr := NewWithPoll(func(k ebiten.Key) bool { return down[k] })

	steps := []struct {
		name     string
		tab      bool
		expected bool
	}{
		{"released", false, false},
		{"pressed", true, true},
		{"held", true, false},
		{"released again", false, false},
		{"pressed again", true, true},
	}
	for _, s := range steps {
		down[ebiten.KeyTab] = s.tab
		if got := tr.JustPressed(ebiten.KeyTab); got != s.expected {
			t.Errorf("%s: expected %v, got %v", s.name, s.expected, got)
		}
	}
}

func TestKeysAreIndependent(t *testing.T) {
	down := map[ebiten.Key]bool{ebiten.KeyI: true}
	tr := NewWithPoll(func(k ebiten.Key) bool { return down[k] })

	if !tr.JustPressed(ebiten.KeyI) {
		t.Error("Expected I to register")
	}
	down[ebiten.KeyTab] = true
	if !tr.JustPressed(ebiten.KeyTab) {
		t.Error("Expected Tab to register while I is held")
	}
	if tr.JustPressed(ebiten.KeyI) {
		t.Error("Expected held I not to repeat")
	}
}
