package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/jask/svmxplorer/internal/explorer"
)

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette, true-color hex values
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext1 lipgloss.Color = "#bac2de"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface2 lipgloss.Color = "#585b70"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorBase     lipgloss.Color = "#1e1e2e"
	colorMantle   lipgloss.Color = "#181825"
	colorCrust    lipgloss.Color = "#11111b"
)

// ---------------------------------------------------------------------------
// Semantic color aliases
// ---------------------------------------------------------------------------

const (
	colorAccent = colorPink
	colorBrand  = colorPink
	colorFocus  = colorLavender
	colorError  = colorRed

	colorClassA    = colorBlue
	colorClassB    = colorGreen
	colorCrosshair = colorYellow
)

// AllPaletteColors returns every palette color in use for testing purposes.
func AllPaletteColors() []lipgloss.Color {
	return []lipgloss.Color{
		colorPink, colorMauve, colorRed, colorPeach,
		colorYellow, colorGreen, colorTeal, colorBlue, colorLavender,
		colorText, colorSubtext1, colorSubtext0,
		colorOverlay1, colorOverlay0,
		colorSurface2, colorSurface1, colorSurface0,
		colorBase, colorMantle, colorCrust,
	}
}

// ---------------------------------------------------------------------------
// Class and surface colors
// ---------------------------------------------------------------------------

func classColor(c explorer.Class) lipgloss.Color {
	if c == explorer.ClassB {
		return colorClassB
	}
	return colorClassA
}

func classGlyph(c explorer.Class) string {
	if c == explorer.ClassB {
		return "▲"
	}
	return "■"
}

// surfacePalette holds the painted background of each predicted label.
type surfacePalette [2]lipgloss.Color

// newSurfacePalette blends the colormap endpoints over the plot background
// at alpha, so the field stays dim enough for markers to read on top.
func newSurfacePalette(low, high string, alpha float64) (surfacePalette, error) {
	bg, err := colorful.Hex(string(colorBase))
	if err != nil {
		return surfacePalette{}, err
	}
	var out surfacePalette
	for i, hex := range []string{low, high} {
		c, err := colorful.Hex(hex)
		if err != nil {
			return surfacePalette{}, fmt.Errorf("surface color %q: %w", hex, err)
		}
		out[i] = lipgloss.Color(bg.BlendRgb(c, alpha).Clamped().Hex())
	}
	return out, nil
}

// color returns the background for a predicted label.
func (p surfacePalette) color(label int) lipgloss.Color {
	if label == 1 {
		return p[1]
	}
	return p[0]
}
