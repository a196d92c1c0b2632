package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPalette(t *testing.T) {
	p := DefaultPalette()
	assert.Equal(t, "plasma", p.Name)
	require.Len(t, p.Colors, 11)
	assert.Equal(t, RGB{13, 8, 135}, p.Colors[0])
	assert.Equal(t, RGB{240, 249, 33}, p.Colors[10])
}

func TestParseGPLErrors(t *testing.T) {
	_, err := ParseGPL(strings.NewReader("GIMP Palette\nName: empty\n# nothing\n"))
	assert.Error(t, err)

	_, err = LoadGPL(filepath.Join(t.TempDir(), "missing.gpl"))
	assert.Error(t, err)
}

func TestLoadGPL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bw.gpl")
	require.NoError(t, os.WriteFile(path, []byte("GIMP Palette\nName: bw\n0 0 0 black\n255 255 255 white\n"), 0o644))

	p, err := LoadGPL(path)
	require.NoError(t, err)
	assert.Equal(t, RGB{0, 0, 0}, p.Lookup(-1))
	assert.Equal(t, RGB{255, 255, 255}, p.Lookup(2))
	assert.Equal(t, RGB{127, 127, 127}, p.Lookup(0.5))
}

func TestPitchColors(t *testing.T) {
	th := New(nil)
	// octaves share a color
	assert.Equal(t, th.PitchRGB(48), th.PitchRGB(60))
	assert.Equal(t, th.Palette.Colors[0], th.PitchRGB(48))
	assert.Equal(t, th.Palette.Colors[len(th.Palette.Colors)-1], th.PitchRGB(47))
	assert.Equal(t, lipgloss.Color("#0d0887"), th.PitchColor(60))
	assert.NotEqual(t, th.PitchRGB(48), th.PitchRGB(49))
}
