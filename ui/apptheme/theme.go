// Package apptheme provides the custom theme for the wrap studio.
package apptheme

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// WrapStudioTheme provides a custom theme for the application.
type WrapStudioTheme struct{}

var _ fyne.Theme = (*WrapStudioTheme)(nil)

func (t *WrapStudioTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0xD3, G: 0x2F, B: 0x2F, A: 0xFF} // Red for vehicle wraps
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0x21, G: 0x96, B: 0xF3, A: 0x80} // Blue selection, matches canvas handles
	case theme.ColorNameScrollBar:
		return color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF} // Visible gray scrollbar
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *WrapStudioTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *WrapStudioTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *WrapStudioTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 16 // Wider scrollbar for easier grabbing
	case theme.SizeNameScrollBarSmall:
		return 12
	default:
		return theme.DefaultTheme().Size(name)
	}
}
