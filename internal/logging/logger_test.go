package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/brownieplayer/internal/config"
)

func TestLogger_TaggedLines(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, config.ColorNever, false)

	l.Info("Checking USB...")
	l.Blank()
	l.Error("No media files found.")
	l.Debug("hidden unless verbose")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "BrowniePlayer: Checking USB...", lines[0])
	assert.Equal(t, "BrowniePlayer: ", lines[1])
	assert.Equal(t, "BrowniePlayer: No media files found.", lines[2])
}

func TestLogger_VerboseDebug(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, config.ColorNever, true)
	l.Debug("probe %s", "a.mp4")
	assert.Equal(t, "BrowniePlayer: probe a.mp4\n", buf.String())
}

func TestLogger_Rule(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, config.ColorNever, false)
	l.Rule()
	assert.Equal(t, "BrowniePlayer: "+strings.Repeat("_", 80)+"\n", buf.String())
}

func TestLogger_ColorAlways(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, config.ColorAlways, false)
	l.Error("boom")
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "boom")
}

func TestNewLogger_WithFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.LogFile = filepath.Join(dir, "logs", "brownieplayer.log")

	l, err := NewLogger(&cfg)
	require.NoError(t, err)
	l.Warn("  Warning: mp3 is not a recommended audio codec.")
	l.Blank()
	require.NoError(t, l.Close())

	b, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 1, "blank spacer lines are not written to the file")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "Warning: mp3 is not a recommended audio codec.", entry["message"])
	assert.Equal(t, l.RunID(), entry["run_id"])
}
