package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyaccordion/layout"
)

func TestDefaultTable(t *testing.T) {
	want := map[layout.KeyID]layout.Note{
		"1": 47, "q": 48, "a": 49, "z": 50, "2": 50,
		"w": 51, "s": 52, "x": 53, "3": 53, "e": 54,
		"d": 55, "c": 56, "4": 56, "r": 57, "f": 58,
		"v": 59, "5": 59, "t": 60, "g": 61, "b": 62,
		"6": 62, "y": 63, "h": 64, "n": 65, "7": 65,
		"u": 66, "j": 67, "m": 68, "8": 68, "i": 69,
		"k": 70, ",": 71, "9": 71, "o": 72, "l": 73,
		".": 74, "0": 74, "p": 75, ";": 76, "/": 77,
		"-": 77, "[": 78, "'": 79, "=": 80, "]": 81,
		"\\": 84,
	}
	require.Len(t, want, 46)

	m := layout.Default()
	assert.Equal(t, len(want), m.Len())
	for key, note := range want {
		got, ok := m.Lookup(key)
		require.True(t, ok, "key %q", key)
		assert.Equal(t, note, got, "key %q", key)
	}

	got := make(map[layout.KeyID]layout.Note, m.Len())
	for _, e := range m.Entries() {
		got[e.Key] = e.Note
	}
	assert.Equal(t, want, got)
}

func TestUnmappedKeys(t *testing.T) {
	m := layout.Default()
	for _, key := range []layout.KeyID{layout.KeyEscape, "Q", " ", "`", "ctrl", ""} {
		_, ok := m.Lookup(key)
		assert.False(t, ok, "key %q", key)
	}
}

func TestNumberRowOverlapsLetterRow(t *testing.T) {
	m := layout.Default()
	pairs := [][2]layout.KeyID{
		{"2", "z"}, {"3", "x"}, {"4", "c"}, {"5", "v"}, {"6", "b"},
		{"7", "n"}, {"8", "m"}, {"9", ","}, {"0", "."}, {"-", "/"},
	}
	for _, p := range pairs {
		a, _ := m.Lookup(p[0])
		b, _ := m.Lookup(p[1])
		assert.Equal(t, a, b, "%q and %q", p[0], p[1])
	}
	assert.Equal(t, []layout.KeyID{"2", "z"}, m.KeysFor(50))
}

func TestEntriesSorted(t *testing.T) {
	entries := layout.Default().Entries()
	require.Len(t, entries, 46)
	assert.Equal(t, layout.Entry{Key: "1", Note: 47}, entries[0])
	assert.Equal(t, layout.Entry{Key: "\\", Note: 84}, entries[len(entries)-1])
	for i := 1; i < len(entries); i++ {
		assert.LessOrEqual(t, entries[i-1].Note, entries[i].Note)
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, "C", layout.PitchClass(48))
	assert.Equal(t, "B", layout.PitchClass(47))
	assert.Equal(t, "C#", layout.PitchClass(49))
	assert.Equal(t, "C4", layout.Name(60))
	assert.Equal(t, "B2", layout.Name(47))
	assert.Equal(t, "C6", layout.Name(84))
}
