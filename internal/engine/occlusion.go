package engine

import (
	"alleycats/internal/mathutil"
	"alleycats/internal/scene"
)

// Occludes reports whether building hides character from eye. The test is a
// heuristic: the ground footprints must overlap and the character's centre
// must be farther from the eye than the building's centre. Without overlap
// the character is never hidden, whatever the distances.
func Occludes(character, building *scene.Object, eye mathutil.Vec3) bool {
	if !character.Footprint().Overlaps(building.Footprint()) {
		return false
	}
	return character.Center().Dist(eye) > building.Center().Dist(eye)
}

// Hidden reports whether any of buildings occludes character.
func Hidden(character *scene.Object, buildings []*scene.Object, eye mathutil.Vec3) bool {
	for _, b := range buildings {
		if Occludes(character, b, eye) {
			return true
		}
	}
	return false
}
