package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColorMode(t *testing.T) {
	for _, s := range []string{"auto", "always", "never"} {
		m, err := ParseColorMode(s)
		require.NoError(t, err)
		assert.Equal(t, ColorMode(s), m)
	}

	m, err := ParseColorMode("")
	require.NoError(t, err)
	assert.Equal(t, ColorAuto, m)

	_, err = ParseColorMode("sometimes")
	assert.Error(t, err)
}

func TestReporter_Golden(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{name: "status_ok", ok: true},
		{name: "status_failed", ok: false},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			require.NoError(t, New(buf, ColorNever).Report(tt.ok, "tests/minimal_test.sh"))
			g.Assert(t, tt.name, buf.Bytes())
		})
	}
}

func TestReporter_SingleLine(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, New(buf, ColorAlways).Report(false, "pipesmoke"))

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestReporter_Colors(t *testing.T) {
	const (
		brightGreen = "\x1b[92m"
		brightRed   = "\x1b[91m"
	)
	r := New(&bytes.Buffer{}, ColorAlways)

	okLine := r.Line(true, "x")
	failedLine := r.Line(false, "x")

	assert.Contains(t, okLine, brightGreen+" OK ")
	assert.NotContains(t, okLine, brightRed)
	assert.NotContains(t, okLine, "FAILED")
	assert.True(t, strings.HasSuffix(okLine, "] x"))

	assert.Contains(t, failedLine, brightRed+"FAILED")
	assert.NotContains(t, failedLine, brightGreen)
	assert.True(t, strings.HasSuffix(failedLine, "] x"))
}

func TestPalette_Warn(t *testing.T) {
	p := NewPalette(&bytes.Buffer{}, ColorAlways)
	assert.Contains(t, p.Warn.Render("part"), "\x1b[93mpart")
}

func TestReporter_NoColor(t *testing.T) {
	r := New(&bytes.Buffer{}, ColorNever)
	assert.Equal(t, "[ OK ] x", r.Line(true, "x"))
	assert.Equal(t, "[FAILED] x", r.Line(false, "x"))
}
