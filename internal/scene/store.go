package scene

import (
	"errors"
	"fmt"

	"alleycats/internal/mathutil"
	"alleycats/internal/rgb"
)

var (
	// ErrDuplicateID is returned when an ID is already in the store.
	ErrDuplicateID = errors.New("scene: duplicate object id")
	// ErrEmptyID is returned when a character is added without an ID.
	ErrEmptyID = errors.New("scene: empty object id")
	// ErrNotFound is returned for unknown IDs.
	ErrNotFound = errors.New("scene: object not found")
)

// Store is the ordered scene object collection. It is not safe for
// concurrent use; callers interleave updates and renders on one goroutine
// or hand the renderer a Clone.
type Store struct {
	objects []*Object
	byID    map[string]*Object
	nextID  int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{byID: make(map[string]*Object)}
}

// Len returns the number of objects.
func (s *Store) Len() int {
	return len(s.objects)
}

// AddBuilding adds a box building with a generated ID and precomputes its
// window-color cache.
func (s *Store) AddBuilding(pos, size mathutil.Vec3, color rgb.Color) *Object {
	s.nextID++
	id := fmt.Sprintf("building-%d", s.nextID)
	for s.byID[id] != nil {
		s.nextID++
		id = fmt.Sprintf("building-%d", s.nextID)
	}
	obj := &Object{
		ID:      id,
		Kind:    KindBuilding,
		Pos:     pos,
		Size:    size,
		Color:   color,
		Windows: NewWindowColors(pos.X, pos.Z, size.Y),
	}
	s.insert(obj)
	return obj
}

// AddCharacter adds a character with the given stable ID. Boss characters
// get the larger footprint.
func (s *Store) AddCharacter(id string, pos mathutil.Vec3, color rgb.Color, status Status) (*Object, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	if s.byID[id] != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	size := CharacterSize
	if status.Has(StatusBoss) {
		size = BossSize
	}
	obj := &Object{
		ID:     id,
		Kind:   KindCharacter,
		Pos:    pos,
		Size:   size,
		Color:  color,
		Status: status,
	}
	s.insert(obj)
	return obj, nil
}

func (s *Store) insert(obj *Object) {
	s.objects = append(s.objects, obj)
	s.byID[obj.ID] = obj
}

// Get returns the object with id.
func (s *Store) Get(id string) (*Object, bool) {
	obj, ok := s.byID[id]
	return obj, ok
}

// Remove deletes the object with id, keeping the order of the rest.
func (s *Store) Remove(id string) error {
	obj, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.byID, id)
	for i, o := range s.objects {
		if o == obj {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			break
		}
	}
	return nil
}

// Move sets the object's position.
func (s *Store) Move(id string, pos mathutil.Vec3) error {
	obj, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	obj.Pos = pos
	return nil
}

// SetStatus replaces a character's status flags.
func (s *Store) SetStatus(id string, status Status) error {
	obj, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	obj.Status = status
	return nil
}

// SetTint sets or clears a character's tint.
func (s *Store) SetTint(id string, tint rgb.Color, enabled bool) error {
	obj, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	obj.Tint = tint
	obj.HasTint = enabled
	return nil
}

// All returns the objects in insertion order. The slice is shared; do not
// modify it.
func (s *Store) All() []*Object {
	return s.objects
}

// Buildings returns the buildings in insertion order.
func (s *Store) Buildings() []*Object {
	return s.filter(KindBuilding)
}

// Characters returns the characters in insertion order.
func (s *Store) Characters() []*Object {
	return s.filter(KindCharacter)
}

func (s *Store) filter(k Kind) []*Object {
	var out []*Object
	for _, o := range s.objects {
		if o.Kind == k {
			out = append(out, o)
		}
	}
	return out
}

// Clone returns a deep-enough copy for rendering on another goroutine.
// Window caches are immutable and shared.
func (s *Store) Clone() *Store {
	c := &Store{
		objects: make([]*Object, len(s.objects)),
		byID:    make(map[string]*Object, len(s.objects)),
		nextID:  s.nextID,
	}
	for i, o := range s.objects {
		cp := *o
		c.objects[i] = &cp
		c.byID[cp.ID] = &cp
	}
	return c
}
