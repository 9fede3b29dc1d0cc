// Package colorutil provides shared color utilities for the wrap designer.
package colorutil

import (
	"fmt"
	"image/color"
	"strings"
)

// Common UI colors.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Cyan    = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Blue    = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Green   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
)

// ParseHex parses a "#RRGGBB" or "#RRGGBBAA" hex color string.
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	var r, g, b, a uint8
	a = 255
	switch len(s) {
	case 6:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
			return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
	case 8:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x%02x", &r, &g, &b, &a); err != nil {
			return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: want #RRGGBB or #RRGGBBAA", s)
	}
	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// FormatHex formats a color as "#RRGGBB", or "#RRGGBBAA" when alpha is not 255.
func FormatHex(c color.RGBA) string {
	if c.A != 255 {
		return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
