package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RunStarted(time.Now())
		m.Source("cache")
		m.Command("copy")
		m.FilesResolved(3)
		m.FileCopied(10)
		m.ProbeFailed()
		m.StreamWarning("audio")
		m.Wait(5 * time.Second)
		m.PlayerStarted("loop")
		m.PlaybackFailed()
	})
	assert.NoError(t, m.WriteFile("/nonexistent/brownieplayer.prom"))
	assert.Nil(t, m.Registry())
}

func TestCounters(t *testing.T) {
	m := New()
	m.ProbeFailed()
	m.ProbeFailed()
	m.StreamWarning("video")
	m.FileCopied(1024)
	m.FileCopied(2048)
	m.Wait(15 * time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.probeFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.streamWarnings.WithLabelValues("video")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.filesCopied))
	assert.Equal(t, 3072.0, testutil.ToFloat64(m.bytesCopied))
	assert.Equal(t, 15.0, testutil.ToFloat64(m.waitSeconds))
}

func TestSourceIsExclusive(t *testing.T) {
	m := New()
	m.Source("removable")
	m.Source("cache")

	assert.Equal(t, 1, testutil.CollectAndCount(m.source))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.source.WithLabelValues("cache")))
}

func TestWriteFile(t *testing.T) {
	m := New()
	m.FilesResolved(2)
	m.PlayerStarted("sequence")

	path := filepath.Join(t.TempDir(), "brownieplayer.prom")
	require.NoError(t, m.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "brownieplayer_playlist_files 2")
	assert.Contains(t, string(data), `brownieplayer_player_invocations_total{mode="sequence"} 1`)
}
