package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/backmassage/brownieplayer/internal/config"
	"github.com/backmassage/brownieplayer/internal/display"
	"github.com/backmassage/brownieplayer/internal/metrics"
	"github.com/backmassage/brownieplayer/internal/probe"
	"github.com/backmassage/brownieplayer/internal/validate"
)

// ErrNoFormat is returned for probe output without a usable FORMAT section.
var ErrNoFormat = errors.New("probe output has no format_name")

// Prober returns the parsed probe sections for a file.
type Prober interface {
	Probe(ctx context.Context, path string) (probe.Sections, error)
}

// Player plays one file and blocks until the player exits.
type Player interface {
	Play(ctx context.Context, path string, loop bool) error
	Command(path string, loop bool) string
}

// Logger is the console surface the pipeline writes to.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
	Blank()
	Rule()
}

// MediaFile is one playlist entry after probing. It lives for a single
// inspection pass.
type MediaFile struct {
	Path    string
	Title   string
	Format  probe.Record
	Streams []probe.Record
}

// Report is the outcome of an inspection pass.
type Report struct {
	Stats RunStats
}

// HasWarnings reports whether any file failed or drew a warning.
func (r Report) HasWarnings() bool { return r.Stats.HasWarnings() }

// Orchestrator inspects the playlist, waits, and plays it.
type Orchestrator struct {
	Config  *config.Config
	Log     Logger
	Prober  Prober
	Player  Player
	Metrics *metrics.Metrics

	// Sleep waits for d or until ctx is done. Default: a timer.
	Sleep func(ctx context.Context, d time.Duration) error
	// Blank hides the console before playback. Optional.
	Blank func(ctx context.Context)
	// Title returns a file's embedded title. Optional.
	Title func(path string) string
}

// WaitTime is the grace period before playback: longer when the operator
// has warnings to read.
func WaitTime(cfg *config.Config, hasWarnings bool) time.Duration {
	if hasWarnings {
		return time.Duration(cfg.WarningWaitSeconds) * time.Second
	}
	return time.Duration(cfg.WaitSeconds) * time.Second
}

// Run reports on files, waits, blanks the console and plays. With no files
// it shows the setup help and returns without playing.
func (o *Orchestrator) Run(ctx context.Context, files []string) error {
	if len(files) == 0 {
		o.Log.Error("No media files found.")
		display.PrintHelp(o.Log, o.Config.Policy())
		return nil
	}

	report, err := o.Inspect(ctx, files)
	if err != nil {
		return err
	}

	wait := WaitTime(o.Config, report.HasWarnings())
	o.Metrics.Wait(wait)
	if err := o.Metrics.WriteFile(o.Config.MetricsFile); err != nil {
		o.Log.Debug("Cannot write metrics: %v", err)
	}

	o.Log.Blank()
	o.Log.Info("Proceeding in %d seconds...", int(wait/time.Second))
	if err := o.sleep(ctx, wait); err != nil {
		return err
	}

	if o.Blank != nil {
		o.Blank(ctx)
	}
	return o.Play(ctx, files)
}

// Inspect probes and validates every file in playlist order and logs the
// report. A file that cannot be probed or validated gets one error line and
// counts as a warning; the pass always continues with the next file. Only
// cancellation stops it early.
func (o *Orchestrator) Inspect(ctx context.Context, files []string) (Report, error) {
	var stats RunStats
	stats.Total = len(files)
	policy := o.Config.Policy()

	o.Log.Rule()
	o.Log.Blank()
	o.Log.Info("Found %d media file(s):", len(files))

	for i, path := range files {
		stats.Current = i + 1
		o.Log.Blank()
		o.Log.Info("%d. %s", i+1, filepath.Base(path))

		mf, res, err := o.inspectFile(ctx, path, policy)
		if err != nil {
			if ctx.Err() != nil {
				return Report{Stats: stats}, ctx.Err()
			}
			o.Log.Error("   Error: Unable to decode file. Playback will probably fail.")
			o.Log.Debug("   %v", err)
			o.Metrics.ProbeFailed()
			stats.Failed++
			continue
		}

		if mf.Title != "" {
			o.Log.Info("   Title: %s", mf.Title)
		}
		o.Log.Info("   %s", containerLine(mf.Format))

		for _, s := range res.Streams {
			o.Log.Info("   %s", s.Description)
			for _, w := range s.Warnings {
				for _, line := range w.Lines() {
					o.Log.Warn("   %s", line)
				}
				o.Metrics.StreamWarning(string(w.Kind))
				stats.Warnings++
			}
		}
		if res.HasWarnings {
			stats.Warned++
		}
	}

	o.Log.Rule()
	return Report{Stats: stats}, nil
}

func (o *Orchestrator) inspectFile(ctx context.Context, path string, policy config.CodecPolicy) (MediaFile, validate.Result, error) {
	sections, err := o.Prober.Probe(ctx, path)
	if err != nil {
		return MediaFile{}, validate.Result{}, err
	}

	format, ok := sections.Format()
	if !ok {
		return MediaFile{}, validate.Result{}, ErrNoFormat
	}
	if _, ok := format.Get("format_name"); !ok {
		return MediaFile{}, validate.Result{}, ErrNoFormat
	}

	mf := MediaFile{Path: path, Format: format, Streams: sections.Streams()}
	if o.Title != nil {
		mf.Title = o.Title(path)
	}

	res, err := validate.Validate(mf.Streams, policy)
	if err != nil {
		return MediaFile{}, validate.Result{}, err
	}
	return mf, res, nil
}

// containerLine renders "Container: mov,mp4,... (QuickTime / MOV), 5.2 Mbps".
func containerLine(format probe.Record) string {
	name, _ := format.Get("format_name")
	line := "Container: " + name
	if long, ok := format.Get("format_long_name"); ok {
		line += fmt.Sprintf(" (%s)", long)
	}
	if raw, ok := format.Get("bit_rate"); ok {
		if bps, err := strconv.ParseInt(raw, 10, 64); err == nil && bps > 0 {
			line += ", " + display.FormatBitrateLabel(bps/1000)
		}
	}
	return line
}

// Play runs the playlist until ctx is cancelled. A single file is handed to
// the player once in loop mode and Play returns when that player exits.
// Several files are played one after another, and the sequence repeats.
// A player failure ends playback.
func (o *Orchestrator) Play(ctx context.Context, files []string) error {
	switch len(files) {
	case 0:
		return nil
	case 1:
		o.Log.Info("Running: %s", o.Player.Command(files[0], true))
		return o.playOne(ctx, files[0], true)
	}

	for {
		for _, path := range files {
			if err := ctx.Err(); err != nil {
				return err
			}
			o.Log.Debug("Running: %s", o.Player.Command(path, false))
			if err := o.playOne(ctx, path, false); err != nil {
				return err
			}
		}
	}
}

func (o *Orchestrator) playOne(ctx context.Context, path string, loop bool) error {
	mode := "sequence"
	if loop {
		mode = "loop"
	}
	o.Metrics.PlayerStarted(mode)

	err := o.Player.Play(ctx, path, loop)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	o.Metrics.PlaybackFailed()
	return err
}

func (o *Orchestrator) sleep(ctx context.Context, d time.Duration) error {
	if o.Sleep != nil {
		return o.Sleep(ctx, d)
	}
	return Sleep(ctx, d)
}

// Sleep waits for d, returning early with ctx.Err() when ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
