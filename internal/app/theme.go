package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// GeoHeatTheme provides a custom theme for the viewer.
type GeoHeatTheme struct{}

var _ fyne.Theme = (*GeoHeatTheme)(nil)

func (t *GeoHeatTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0xE5, G: 0x39, B: 0x35, A: 0xFF} // Heat red
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0xFF, G: 0xB3, B: 0x00, A: 0x80} // Warm amber
	case theme.ColorNameScrollBar:
		return color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *GeoHeatTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *GeoHeatTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *GeoHeatTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 16
	default:
		return theme.DefaultTheme().Size(name)
	}
}
