package render

import (
	"fmt"
	"image/color"
)

// Color represents an RGBA color with float components (0.0 to 1.0).
type Color struct {
	R, G, B, A float32
}

// Palette (Tailwind stone, lime, indigo and red shades).
var (
	ColorTransparent = Color{0, 0, 0, 0}
	ColorBackground  = RGB(0xfa, 0xfa, 0xf9) // stone-50

	ColorFore        = MustHex("#44403c") // stone-700
	ColorSubtle      = MustHex("#a8a29e") // stone-400
	ColorHover       = MustHex("#4d7c0f") // lime-700
	ColorHoverSubtle = MustHex("#a8a29e") // stone-400
	ColorDragging    = MustHex("#4d7c0f") // lime-700
	ColorBlue        = MustHex("#6366f1") // indigo-500
	ColorDarkBlue    = MustHex("#4338ca") // indigo-700
	ColorRed         = MustHex("#dc2626") // red-600
)

// RGB creates a color from 8-bit RGB values with full alpha.
func RGB(r, g, b uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: 1.0,
	}
}

// Hex parses a "#rrggbb" color.
func Hex(s string) (Color, error) {
	var r, g, b uint8
	if len(s) != 7 || s[0] != '#' {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return RGB(r, g, b), nil
}

// MustHex is Hex for package-level palette entries. It panics on bad input.
func MustHex(s string) Color {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// WithAlpha returns a copy of the color with a different alpha value.
func (c Color) WithAlpha(a float32) Color {
	return Color{c.R, c.G, c.B, a}
}

// NRGBA converts the color for image/draw based surfaces.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: to8(c.R),
		G: to8(c.G),
		B: to8(c.B),
		A: to8(c.A),
	}
}

func to8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
