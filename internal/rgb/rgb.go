// Package rgb holds the single color type used by the renderer and the
// recolor operations applied to faces and sprite pixels.
package rgb

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Color is an opaque 8-bit RGB triple.
type Color struct {
	R, G, B uint8
}

// Fallback is used wherever a color is missing or malformed.
var Fallback = Color{0x66, 0x66, 0x66}

// Common colors used by the renderer.
var (
	Black  = Color{0, 0, 0}
	White  = Color{255, 255, 255}
	Yellow = Color{255, 255, 0}
)

// greyTolerance is the max channel spread for a tint to count as grey.
const greyTolerance = 20

// ParseHex parses "#rrggbb" (the leading '#' is optional). Parsing happens at
// data-load boundaries only; the per-frame path works on Color values.
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Fallback, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Fallback, fmt.Errorf("color %q: %w", s, err)
	}
	return Color{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// Hex parses s and returns Fallback on any error.
func Hex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		return Fallback
	}
	return c
}

// String formats the color as "#rrggbb".
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGBA converts to an image/color value with the given alpha in [0,1].
func (c Color) RGBA(alpha float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: clamp(alpha * 255)}
}

// Opaque is RGBA(1).
func (c Color) Opaque() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// MarshalYAML writes the color as a hex string.
func (c Color) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// UnmarshalYAML reads a hex string. Malformed values become Fallback rather
// than failing the whole document.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	*c = Hex(s)
	return nil
}

// Darken scales each channel by factor, truncating.
func (c Color) Darken(factor float64) Color {
	return Color{
		R: clamp(floor(float64(c.R) * factor)),
		G: clamp(floor(float64(c.G) * factor)),
		B: clamp(floor(float64(c.B) * factor)),
	}
}

// Blend moves c toward tint by strength in [0,1].
func (c Color) Blend(tint Color, strength float64) Color {
	mix := func(a, b uint8) uint8 {
		return clamp(floor(float64(a)*(1-strength) + float64(b)*strength))
	}
	return Color{mix(c.R, tint.R), mix(c.G, tint.G), mix(c.B, tint.B)}
}

// IsGrey reports whether the channels are equal or within greyTolerance of
// their neighbours.
func (c Color) IsGrey() bool {
	if c.R == c.G && c.G == c.B {
		return true
	}
	return absDiff(c.R, c.G) < greyTolerance && absDiff(c.G, c.B) < greyTolerance
}

// Luminance is the weighted brightness 0.30R + 0.59G + 0.11B.
func (c Color) Luminance() float64 {
	return float64(c.R)*0.3 + float64(c.G)*0.59 + float64(c.B)*0.11
}

// Bleach converts to grayscale and brightens by 1.5, clamped.
func (c Color) Bleach() Color {
	g := clamp(floor(c.Luminance() * 1.5))
	return Color{g, g, g}
}

// Shadow collapses the color toward near-black.
func (c Color) Shadow() Color {
	g := clamp(floor((float64(c.R)*0.3 + float64(c.G)*0.3 + float64(c.B)*0.3) * 0.2))
	return Color{g, g, g}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func floor(v float64) float64 {
	if v < 0 {
		return 0
	}
	return float64(int64(v))
}

func clamp(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
