// Package scene holds the drawable objects the renderer reads every frame.
// The simulation owns mutation; the renderer only reads between updates.
package scene

import (
	"alleycats/internal/mathutil"
	"alleycats/internal/rgb"
)

// Kind discriminates scene objects.
type Kind uint8

const (
	KindBuilding Kind = iota
	KindCharacter
)

func (k Kind) String() string {
	switch k {
	case KindBuilding:
		return "building"
	case KindCharacter:
		return "character"
	default:
		return "unknown"
	}
}

// Status is a set of character state flags. The zero value is an alive,
// regular character.
type Status uint8

const (
	StatusDefeated Status = 1 << iota
	StatusBoss
)

// Has reports whether every flag in f is set.
func (s Status) Has(f Status) bool {
	return s&f == f
}

// Default character extents in world units.
var (
	CharacterSize = mathutil.V3(3, 5, 3)
	BossSize      = mathutil.V3(10, 10, 10)
)

// Object is a building or a character. Pos is the minimum corner of the
// object's box and Size its (w, h, d) extents.
type Object struct {
	ID    string
	Kind  Kind
	Pos   mathutil.Vec3
	Size  mathutil.Vec3
	Color rgb.Color

	// Characters only.
	Status  Status
	Tint    rgb.Color
	HasTint bool

	// Buildings only. Immutable after creation.
	Windows *WindowColors
}

// Center returns the middle of the object's box.
func (o *Object) Center() mathutil.Vec3 {
	return o.Pos.Add(o.Size.Scale(0.5))
}

// Footprint returns the ground-plane rectangle covered by the object.
func (o *Object) Footprint() mathutil.Rect {
	return mathutil.Rect{
		MinX: o.Pos.X,
		MinZ: o.Pos.Z,
		MaxX: o.Pos.X + o.Size.X,
		MaxZ: o.Pos.Z + o.Size.Z,
	}
}

// IsBuilding reports whether the object is a building.
func (o *Object) IsBuilding() bool { return o.Kind == KindBuilding }

// IsCharacter reports whether the object is a character.
func (o *Object) IsCharacter() bool { return o.Kind == KindCharacter }

// Defeated reports whether a character is no longer alive. Defeated
// characters stay in the scene.
func (o *Object) Defeated() bool { return o.Status.Has(StatusDefeated) }

// Boss reports whether the character uses the boss treatment.
func (o *Object) Boss() bool { return o.Status.Has(StatusBoss) }
