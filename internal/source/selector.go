package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/backmassage/brownieplayer/internal/config"
	"github.com/backmassage/brownieplayer/internal/metrics"
	"github.com/backmassage/brownieplayer/internal/playlist"
)

// Selector walks the removable-drive decision tree once per run.
type Selector struct {
	Config   *config.Config
	Log      Logger
	Finder   DeviceFinder
	Mounter  Mounter
	Handoff  Handoff // nil disables the handoff script
	Resolver *playlist.Resolver
	Metrics  *metrics.Metrics

	// Progress receives the copy progress bar; nil disables it.
	Progress io.Writer
}

// Select resolves the playlist source. The first device candidate found is
// mounted read-only at the mount point and stays mounted unless a copy
// command released it; the caller unmounts on exit.
//
// Order of precedence on a mounted drive: handoff script, clear marker, copy
// marker, then the drive itself.
func (s *Selector) Select(ctx context.Context) (Selection, error) {
	cfg := s.Config

	s.Log.Info("Checking USB...")
	dev, ok := s.Finder.Find(ctx)
	if err := ctx.Err(); err != nil {
		return Selection{}, err
	}
	if !ok {
		s.Log.Info("No USB drive found.")
		return s.fromCache(), nil
	}

	sel := Selection{Device: dev}
	s.Log.Info("Found USB drive at %s.", dev)

	if err := s.prepareMountPoint(); err != nil {
		return sel, err
	}
	if err := s.Mounter.Mount(ctx, dev, cfg.MountPoint); err != nil {
		return sel, fmt.Errorf("%w: %w", ErrMountFailed, err)
	}
	s.Log.Info("USB drive mounted at %s.", cfg.MountPoint)

	if ran, err := s.handoff(ctx); err != nil || ran {
		sel.Stop = ran
		return sel, err
	}

	sel.Command = s.detectCommand(cfg.MountPoint)
	switch sel.Command {
	case CommandClear:
		s.Log.Info("Found command: clear")
		s.Metrics.Command("clear")
		sel.Stop = true
		return sel, s.clearCache()

	case CommandCopy:
		s.Log.Info("Found command: copy")
		s.Metrics.Command("copy")
		if err := s.copyToCache(ctx); err != nil {
			return sel, err
		}
		if err := s.unmount(ctx); err != nil {
			return sel, err
		}
		s.Log.Info("Using playlist on SD card (%s).", cfg.CacheDir)
		sel.Source = Source{Kind: SourceCache, Dir: cfg.CacheDir}
		s.Metrics.Source(sel.Source.Kind.String())
		return sel, nil
	}

	sel.Source = Source{Kind: SourceRemovable, Dir: cfg.MountPoint}
	s.Metrics.Source(sel.Source.Kind.String())
	return sel, nil
}

// fromCache is the no-drive branch: the SD card playlist if there is one.
func (s *Selector) fromCache() Selection {
	dir := s.Config.CacheDir
	if !isDir(dir) {
		s.Metrics.Source(SourceNone.String())
		return Selection{}
	}
	s.Log.Info("Using playlist on SD card (%s).", dir)
	s.Metrics.Source(SourceCache.String())
	return Selection{Source: Source{Kind: SourceCache, Dir: dir}}
}

func (s *Selector) prepareMountPoint() error {
	mp := s.Config.MountPoint
	if _, err := os.Stat(mp); err == nil {
		return nil
	}
	s.Log.Info("Creating mount point %s...", mp)
	if err := os.MkdirAll(mp, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrDirectoryCreate, err)
	}
	return nil
}

// handoff runs the drive's script when one is present and trusted. It
// reports whether the script ran, in which case the run is over.
func (s *Selector) handoff(ctx context.Context) (bool, error) {
	script := filepath.Join(s.Config.MountPoint, s.Config.MarkerName+".py")
	if !isFile(script) {
		return false, nil
	}
	s.Log.Info("Found %s", script)

	if s.Handoff == nil {
		s.Log.Warn("Script handoff is disabled. Ignoring %s.", filepath.Base(script))
		return false, nil
	}
	err := s.Handoff.Run(ctx, script)
	if errors.Is(err, ErrUntrustedScript) {
		s.Log.Warn("Ignoring %v.", err)
		s.Log.Warn("Add its SHA-256 to trusted_scripts to allow it.")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// detectCommand checks the markers in precedence order: clear, then copy.
func (s *Selector) detectCommand(root string) Command {
	for _, c := range []Command{CommandClear, CommandCopy} {
		base := filepath.Join(root, s.Config.MarkerName+"."+c.String())
		if isFile(base) || isFile(base+".txt") {
			return c
		}
	}
	return CommandNone
}

// Unmount releases the mount point if something is mounted there. Safe to
// call more than once.
func (s *Selector) Unmount(ctx context.Context) error {
	return s.unmount(ctx)
}

func (s *Selector) unmount(ctx context.Context) error {
	mp := s.Config.MountPoint
	if !s.Mounter.Mounted(mp) {
		return nil
	}
	s.Log.Info("Unmounting %s...", mp)
	return s.Mounter.Unmount(ctx, mp)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
