// Package sprite loads the palette-indexed character bitmap.
package sprite

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"alleycats/internal/rgb"

	"gopkg.in/yaml.v3"
)

// Transparent is the palette index that is never drawn.
const Transparent = '0'

var (
	// ErrBadSize is returned when the rows do not form a size x size square.
	ErrBadSize = errors.New("sprite: rows do not match size")
	// ErrUnknownIndex is returned when a pixel uses an index missing from the palette.
	ErrUnknownIndex = errors.New("sprite: unknown palette index")
)

//go:embed data/cat.yaml
var defaultCat []byte

// Sprite is an immutable square grid of palette indices. Never mutated after
// Parse returns.
type Sprite struct {
	Name    string
	Size    int
	BaseHue rgb.Color

	data    string
	palette [256]entry
}

type entry struct {
	color rgb.Color
	ok    bool
}

// file is the on-disk YAML layout.
type file struct {
	Name    string               `yaml:"name"`
	Size    int                  `yaml:"size"`
	BaseHue rgb.Color            `yaml:"base_hue"`
	Palette map[string]rgb.Color `yaml:"palette"`
	Rows    []string             `yaml:"rows"`
}

// Parse decodes a sprite document.
func Parse(data []byte) (*Sprite, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode sprite: %w", err)
	}
	if f.Size <= 0 || len(f.Rows) != f.Size {
		return nil, fmt.Errorf("%w: size %d, %d rows", ErrBadSize, f.Size, len(f.Rows))
	}

	s := &Sprite{Name: f.Name, Size: f.Size, BaseHue: f.BaseHue}
	for key, c := range f.Palette {
		if len(key) != 1 {
			return nil, fmt.Errorf("%w: palette key %q is not one character", ErrUnknownIndex, key)
		}
		if key[0] == Transparent {
			continue
		}
		s.palette[key[0]] = entry{color: c, ok: true}
	}

	var b strings.Builder
	b.Grow(f.Size * f.Size)
	for i, row := range f.Rows {
		if len(row) != f.Size {
			return nil, fmt.Errorf("%w: row %d has %d pixels", ErrBadSize, i, len(row))
		}
		for j := 0; j < len(row); j++ {
			if row[j] != Transparent && !s.palette[row[j]].ok {
				return nil, fmt.Errorf("%w: %q at row %d col %d", ErrUnknownIndex, row[j], i, j)
			}
		}
		b.WriteString(row)
	}
	s.data = b.String()
	return s, nil
}

// Load reads a sprite document from disk.
func Load(path string) (*Sprite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Default returns the embedded cat sprite.
func Default() *Sprite {
	s, err := Parse(defaultCat)
	if err != nil {
		panic("embedded sprite is invalid: " + err.Error())
	}
	return s
}

// LoadOrDefault loads path, falling back to the embedded sprite. The error
// is returned so the caller can log it.
func LoadOrDefault(path string) (*Sprite, error) {
	if path == "" {
		return Default(), nil
	}
	s, err := Load(path)
	if err != nil {
		return Default(), err
	}
	return s, nil
}

// Index returns the palette index at row, col.
func (s *Sprite) Index(row, col int) byte {
	return s.data[row*s.Size+col]
}

// At returns the color at row, col and false for transparent pixels.
func (s *Sprite) At(row, col int) (rgb.Color, bool) {
	return s.Color(s.Index(row, col))
}

// Color returns the palette color for an index.
func (s *Sprite) Color(index byte) (rgb.Color, bool) {
	e := s.palette[index]
	return e.color, e.ok
}
