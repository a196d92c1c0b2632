package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyaccordion/accordion"
	"keyaccordion/config"
	"keyaccordion/input"
	"keyaccordion/midi"
)

func TestPrintLayout(t *testing.T) {
	var buf bytes.Buffer
	printLayout(&buf)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// 46 keys, ten of them share a note with another key
	require.Len(t, lines, 36)
	assert.Equal(t, "B3    47  1", lines[0])
	assert.Equal(t, "D4    50  2 z", lines[3])
	assert.Equal(t, "C6    84  \\", lines[len(lines)-1])
}

func TestOpenSinkDryRun(t *testing.T) {
	sink, name, closeSink, err := openSink(config.DefaultConfig(), true)
	require.NoError(t, err)
	defer closeSink()

	assert.IsType(t, &midi.Recorder{}, sink)
	assert.Equal(t, "dry run", name)
}

func TestOpenSourceReplay(t *testing.T) {
	path := t.TempDir() + "/keys.txt"
	require.NoError(t, os.WriteFile(path, []byte("press q\nrelease q\npress esc\n"), 0644))

	src, err := openSource(config.DefaultConfig(), path)
	require.NoError(t, err)
	assert.IsType(t, &input.Script{}, src)
	assert.True(t, src.ReportsRelease())
}

type capability bool

func (c *capability) ReportsRelease() bool { return bool(*c) }

func TestReleaseWatchReportsOnce(t *testing.T) {
	var src capability
	var reports []bool
	w := &releaseWatch{src: &src, report: func(ok bool) { reports = append(reports, ok) }}

	w.Show(accordion.NoteEvent{Pressed: true, Note: 48})
	assert.Empty(t, reports)

	src = true
	w.Show(accordion.NoteEvent{Pressed: false, Note: 48})
	w.Show(accordion.NoteEvent{Pressed: true, Note: 50})
	assert.Equal(t, []bool{true}, reports)
}
