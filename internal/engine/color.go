package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a linear RGB triple in [0, 1], the layout of the instance color
// attribute.
type Color struct {
	R, G, B float32
}

var (
	White = Color{1, 1, 1}
	Black = Color{0, 0, 0}
)

var namedColors = map[string]string{
	"white":  "#ffffff",
	"black":  "#000000",
	"red":    "#ff0000",
	"orange": "#ffa500",
	"grey":   "#808080",
	"gray":   "#808080",
}

// ParseColor accepts #rgb, #rrggbb and a handful of CSS names.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return Color{}, fmt.Errorf("parse color %q: unsupported format", s)
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{
		R: float32((n>>16)&0xff) / 255,
		G: float32((n>>8)&0xff) / 255,
		B: float32(n&0xff) / 255,
	}, nil
}

// MustParseColor is ParseColor for literals.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", to8(c.R), to8(c.G), to8(c.B))
}

// RGBA8 returns 8-bit channels with full alpha.
func (c Color) RGBA8() (r, g, b, a uint8) {
	return to8(c.R), to8(c.G), to8(c.B), 0xff
}

func to8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	}
	return uint8(v*255 + 0.5)
}

// ColorClass is the visual class of a seat marker.
type ColorClass uint8

const (
	ClassInactive ColorClass = iota
	ClassZone
	ClassHighlight
)

func (c ColorClass) String() string {
	switch c {
	case ClassInactive:
		return "inactive"
	case ClassZone:
		return "zone"
	case ClassHighlight:
		return "highlight"
	}
	return "unknown"
}

// Palette maps color classes to marker colors.
type Palette struct {
	Inactive  Color
	Zone      Color
	Highlight Color
	Overlay   Color
}

func DefaultPalette() Palette {
	return Palette{
		Inactive:  MustParseColor("#e2e2e2"),
		Zone:      MustParseColor("orange"),
		Highlight: MustParseColor("red"),
		Overlay:   White,
	}
}

func (p Palette) For(c ColorClass) Color {
	switch c {
	case ClassZone:
		return p.Zone
	case ClassHighlight:
		return p.Highlight
	default:
		return p.Inactive
	}
}
