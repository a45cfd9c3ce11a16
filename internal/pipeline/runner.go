package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/backmassage/brownieplayer/internal/config"
	"github.com/backmassage/brownieplayer/internal/device"
	"github.com/backmassage/brownieplayer/internal/display"
	"github.com/backmassage/brownieplayer/internal/metrics"
	"github.com/backmassage/brownieplayer/internal/player"
	"github.com/backmassage/brownieplayer/internal/playlist"
	"github.com/backmassage/brownieplayer/internal/probe"
	"github.com/backmassage/brownieplayer/internal/source"
	"github.com/backmassage/brownieplayer/internal/term"
)

// Selector chooses the playlist source and releases the drive afterwards.
type Selector interface {
	Select(ctx context.Context) (source.Selection, error)
	Unmount(ctx context.Context) error
}

// Runner sequences one session.
type Runner struct {
	Config       *config.Config
	Log          Logger
	Selector     Selector
	Resolver     *playlist.Resolver
	Orchestrator *Orchestrator
	Metrics      *metrics.Metrics

	Version string
	Out     io.Writer // Receives the banner's bare lines.
}

// Run is the top-level entry point: it wires the production collaborators
// from cfg and runs one session. It returns context.Canceled when a signal
// cut the session short.
func Run(ctx context.Context, cfg *config.Config, log Logger, version string) error {
	var m *metrics.Metrics
	if cfg.MetricsFile != "" {
		m = metrics.New()
	}
	resolver := playlist.NewResolver(cfg.Extensions)

	sel := &source.Selector{
		Config: cfg,
		Log:    log,
		Finder: device.NewFinder(cfg.DeviceCandidates, time.Duration(cfg.DeviceWaitSeconds)*time.Second),
		Mounter: device.Mounter{
			MountCommand:  cfg.MountCommand,
			UmountCommand: cfg.UmountCommand,
		},
		Handoff: source.ScriptHandoff{
			Interpreter: cfg.ScriptInterpreter,
			Trusted:     cfg.TrustedScripts,
		},
		Resolver: resolver,
		Metrics:  m,
	}
	if term.IsTerminal(os.Stdout) {
		sel.Progress = os.Stdout
	}

	orch := &Orchestrator{
		Config:  cfg,
		Log:     log,
		Prober:  probe.FFprobe{Binary: cfg.ProbeCommand},
		Player:  player.New(cfg),
		Metrics: m,
		Title:   playlist.ReadTitle,
	}
	if cfg.BlankConsole {
		orch.Blank = term.BlankConsole
	}

	r := &Runner{
		Config:       cfg,
		Log:          log,
		Selector:     sel,
		Resolver:     resolver,
		Orchestrator: orch,
		Metrics:      m,
		Version:      version,
		Out:          os.Stdout,
	}
	return r.Run(ctx)
}

// Run executes banner, source selection, playlist resolution and the
// orchestrator. The mount point is always released on return, even after
// cancellation or a failure.
func (r *Runner) Run(ctx context.Context) (err error) {
	display.PrintBanner(r.Out, r.Log, r.Version)
	r.Metrics.RunStarted(time.Now())

	defer func() {
		cleanup := context.WithoutCancel(ctx)
		if uerr := r.Selector.Unmount(cleanup); uerr != nil && err == nil {
			err = uerr
		}
		if werr := r.Metrics.WriteFile(r.Config.MetricsFile); werr != nil {
			r.Log.Debug("Cannot write metrics: %v", werr)
		}
	}()

	sel, err := r.Selector.Select(ctx)
	if err != nil {
		return err
	}
	if sel.Stop {
		return nil
	}
	if sel.Source.Kind == source.SourceNone {
		display.PrintHelp(r.Log, r.Config.Policy())
		return nil
	}

	files, err := r.Resolver.Resolve(sel.Source.Dir)
	if err != nil && !errors.Is(err, playlist.ErrNotDirectory) {
		return err
	}
	r.Metrics.FilesResolved(len(files))

	return r.Orchestrator.Run(ctx, files)
}
