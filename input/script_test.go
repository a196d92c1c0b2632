package input

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyaccordion/accordion"
	"keyaccordion/layout"
)

func TestParseScript(t *testing.T) {
	src, err := ParseScript(strings.NewReader(`
# stuck key
press q
press q
repeat q
release q
press space
press ctrl+c
`))
	require.NoError(t, err)

	var got []accordion.KeyEvent
	for {
		ev, err := src.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, ev)
	}
	assert.Equal(t, []accordion.KeyEvent{
		{ID: "q", Kind: accordion.Press},
		{ID: "q", Kind: accordion.Press},
		{ID: "q", Kind: accordion.Repeat},
		{ID: "q", Kind: accordion.Release},
		{ID: " ", Kind: accordion.Press},
		{ID: "c", Kind: accordion.Press, Ctrl: true},
	}, got)
	assert.True(t, src.ReportsRelease())
}

func TestParseScriptErrors(t *testing.T) {
	_, err := ParseScript(strings.NewReader("press"))
	assert.ErrorContains(t, err, "line 1")

	_, err = ParseScript(strings.NewReader("press q\ntap q"))
	assert.ErrorContains(t, err, "line 2")
}

func TestScriptClose(t *testing.T) {
	s := NewScript(accordion.KeyEvent{ID: layout.KeyEscape})
	require.NoError(t, s.Close())
	_, err := s.Next()
	assert.Equal(t, io.EOF, err)
}
