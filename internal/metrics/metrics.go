// Package metrics counts what happened during a run and writes the counts
// as a node_exporter textfile. There is no HTTP listener; the kiosk has no
// network surface.
//
// All methods are safe on a nil *Metrics, which is what the pipeline uses
// when no metrics file is configured.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors of one run on a private registry.
type Metrics struct {
	reg *prometheus.Registry

	runStart          prometheus.Gauge
	source            *prometheus.GaugeVec
	command           *prometheus.CounterVec
	filesResolved     prometheus.Gauge
	filesCopied       prometheus.Counter
	bytesCopied       prometheus.Counter
	probeFailures     prometheus.Counter
	streamWarnings    *prometheus.CounterVec
	waitSeconds       prometheus.Gauge
	playerInvocations *prometheus.CounterVec
	playbackFailures  prometheus.Counter
}

// New registers the run collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		runStart: f.NewGauge(prometheus.GaugeOpts{
			Name: "brownieplayer_run_start_timestamp_seconds",
			Help: "Unix time the current run started",
		}),
		source: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "brownieplayer_playlist_source",
			Help: "Playlist source of the current run (1 for the active kind)",
		}, []string{"kind"}), // "removable", "cache", "none"
		command: f.NewCounterVec(prometheus.CounterOpts{
			Name: "brownieplayer_commands_total",
			Help: "Marker commands found on the removable drive",
		}, []string{"command"}),
		filesResolved: f.NewGauge(prometheus.GaugeOpts{
			Name: "brownieplayer_playlist_files",
			Help: "Number of files in the resolved playlist",
		}),
		filesCopied: f.NewCounter(prometheus.CounterOpts{
			Name: "brownieplayer_files_copied_total",
			Help: "Files copied from the removable drive to the cache",
		}),
		bytesCopied: f.NewCounter(prometheus.CounterOpts{
			Name: "brownieplayer_bytes_copied_total",
			Help: "Bytes copied from the removable drive to the cache",
		}),
		probeFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "brownieplayer_probe_failures_total",
			Help: "Files that could not be probed or validated",
		}),
		streamWarnings: f.NewCounterVec(prometheus.CounterOpts{
			Name: "brownieplayer_stream_warnings_total",
			Help: "Codec policy warnings by stream kind",
		}, []string{"kind"}),
		waitSeconds: f.NewGauge(prometheus.GaugeOpts{
			Name: "brownieplayer_wait_seconds",
			Help: "Grace period before playback started",
		}),
		playerInvocations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "brownieplayer_player_invocations_total",
			Help: "Player processes started, by mode",
		}, []string{"mode"}), // "loop", "sequence"
		playbackFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "brownieplayer_playback_failures_total",
			Help: "Player processes that exited with an error",
		}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

func (m *Metrics) RunStarted(t time.Time) {
	if m == nil {
		return
	}
	m.runStart.Set(float64(t.Unix()))
}

// Source marks kind as the active playlist source.
func (m *Metrics) Source(kind string) {
	if m == nil {
		return
	}
	m.source.Reset()
	m.source.WithLabelValues(kind).Set(1)
}

func (m *Metrics) Command(name string) {
	if m == nil {
		return
	}
	m.command.WithLabelValues(name).Inc()
}

func (m *Metrics) FilesResolved(n int) {
	if m == nil {
		return
	}
	m.filesResolved.Set(float64(n))
}

func (m *Metrics) FileCopied(size int64) {
	if m == nil {
		return
	}
	m.filesCopied.Inc()
	m.bytesCopied.Add(float64(size))
}

func (m *Metrics) ProbeFailed() {
	if m == nil {
		return
	}
	m.probeFailures.Inc()
}

func (m *Metrics) StreamWarning(kind string) {
	if m == nil {
		return
	}
	m.streamWarnings.WithLabelValues(kind).Inc()
}

func (m *Metrics) Wait(d time.Duration) {
	if m == nil {
		return
	}
	m.waitSeconds.Set(d.Seconds())
}

func (m *Metrics) PlayerStarted(mode string) {
	if m == nil {
		return
	}
	m.playerInvocations.WithLabelValues(mode).Inc()
}

func (m *Metrics) PlaybackFailed() {
	if m == nil {
		return
	}
	m.playbackFailures.Inc()
}

// WriteFile writes all collectors to path in the text exposition format.
// The file is replaced atomically so node_exporter never reads a partial
// write. A nil receiver or empty path is a no-op.
func (m *Metrics) WriteFile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.reg)
}
