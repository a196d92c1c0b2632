package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"keyaccordion/layout"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	Sounding rune // ■ note on
	Silent   rune // □ note off
}

// New returns a theme over palette, or the built-in palette when nil.
func New(palette *Palette) *Theme {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Sounding: '■',
			Silent:   '□',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleMuted  = 0.2
	RoleFG     = 0.6
	RoleAccent = 0.8
)

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

// PitchRGB spreads the twelve pitch classes over the palette, C first.
func (t *Theme) PitchRGB(n layout.Note) RGB {
	return t.Palette.Lookup(float64(n%12) / 11)
}

// PitchColor is PitchRGB as a lipgloss color.
func (t *Theme) PitchColor(n layout.Note) lipgloss.Color {
	return rgbToLipgloss(t.PitchRGB(n))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
