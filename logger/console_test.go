package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsole_PlainText(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(PlainOptions(&buf))

	c.Info("processing %s", "a.tif")
	c.Error("[FAIL] %s -> %s | %v", "a.tif", "a.png", "boom")

	out := buf.String()
	assert.NotContains(t, out, "\033[")
	assert.Contains(t, out, "INFO  ℹ processing a.tif")
	assert.Contains(t, out, "ERROR ✖ [FAIL] a.tif -> a.png | boom")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestConsole_ColorsEnabled(t *testing.T) {
	var buf bytes.Buffer
	opts := PlainOptions(&buf)
	opts.EnableColors = true
	c := NewConsole(opts)

	c.Success("done")

	assert.Contains(t, buf.String(), Green+Bold+"✓ done"+Reset)
}

func TestConsole_LogHasNoIcon(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(PlainOptions(&buf))

	c.Log("[SKIP] %s", "a.tif")

	assert.Contains(t, buf.String(), "INFO  [SKIP] a.tif")
}

func TestConsole_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	opts := PlainOptions(&buf)
	opts.Level = slog.LevelError
	c := NewConsole(opts)

	c.Info("hidden")
	c.Warn("hidden too")
	c.Error("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestConsole_JSON(t *testing.T) {
	var buf bytes.Buffer
	opts := PlainOptions(&buf)
	opts.EnableJSON = true
	opts.EnableColors = true
	c := NewConsole(opts)

	c.Logger.With("file", "x.tif").Warn("slow")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "slow", rec["msg"])
	assert.Equal(t, "x.tif", rec["file"])
	assert.Contains(t, rec, "time")
}

func TestConsole_GroupedAttrs(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(PlainOptions(&buf))

	c.Logger.WithGroup("run").Info("tally", "total", 3)

	assert.Contains(t, buf.String(), "tally run.total=3")
}

func TestConsole_Fatal(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(PlainOptions(&buf))
	code := -1
	c.exit = func(n int) { code = n }

	c.Fatal("input dir not found: %s", "/nope")

	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "input dir not found: /nope")
}

func TestConsole_Box(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(PlainOptions(&buf))

	c.Box("title", "first line\nx")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	width := len([]rune(lines[0]))
	for _, l := range lines {
		assert.Equal(t, width, len([]rune(l)), "line %q", l)
	}
	assert.True(t, strings.HasPrefix(lines[0], "┌─title"))
	assert.Contains(t, lines[1], "first line")
}

func TestConsole_ProgressDisabled(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(PlainOptions(&buf))

	bar := c.NewProgressBar(2, "Converting")
	bar.Increment(1)
	bar.Complete()

	assert.Empty(t, buf.String())
}
