// Package check provides system diagnostics (--check mode) and the pre-run
// tool lookups: CheckDeps for the player and mount tools, CheckProbe for
// ffprobe.
package check

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/backmassage/brownieplayer/internal/command"
	"github.com/backmassage/brownieplayer/internal/config"
	"github.com/backmassage/brownieplayer/internal/device"
	"github.com/backmassage/brownieplayer/internal/playlist"
)

// Sentinel errors returned by CheckDeps and CheckProbe when a tool is missing.
var (
	ErrProbeNotFound  = errors.New("ffprobe not found on PATH")
	ErrPlayerNotFound = errors.New("player not found on PATH")
	ErrMountNotFound  = errors.New("mount tools not found on PATH")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// RunCheck logs the state of every external dependency and path the player
// relies on. It reports whether the required tools are all present; a missing
// ffprobe, device or directory is informational only.
func RunCheck(ctx context.Context, cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	checkProbe(ctx, cfg, log)
	ok := checkTool(cfg.PlayerCommand, "player", log)
	ok = checkTool(cfg.MountCommand, "mount", log) && ok
	ok = checkTool(cfg.UmountCommand, "umount", log) && ok

	checkDevices(cfg, log)
	checkMountPoint(cfg, log)
	checkCache(cfg, log)
	return ok
}

// checkProbe logs the ffprobe version string, or a warning when it is missing.
func checkProbe(ctx context.Context, cfg *config.Config, log Logger) {
	if _, err := lookPath(cfg.ProbeCommand); err != nil {
		log.Warn("%s not found, media files will not be inspected", cfg.ProbeCommand)
		return
	}
	out, err := command.Output(ctx, cfg.ProbeCommand, "-version")
	if err != nil {
		log.Warn("%s found but -version failed: %v", cfg.ProbeCommand, err)
		return
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("%s: %s", cfg.ProbeCommand, firstLine)
}

func checkTool(name, role string, log Logger) bool {
	path, err := lookPath(name)
	if err != nil {
		log.Error("%s (%s) not found", name, role)
		return false
	}
	log.Success("%s: %s", role, path)
	return true
}

func checkDevices(cfg *config.Config, log Logger) {
	for _, c := range cfg.DeviceCandidates {
		switch {
		case device.IsBlockDevice(c):
			log.Success("Device %s: block device", c)
		case exists(c):
			log.Warn("Device %s: exists but is not a block device", c)
		default:
			log.Info("Device %s: not present", c)
		}
	}
}

func checkMountPoint(cfg *config.Config, log Logger) {
	switch {
	case device.IsMountPoint(cfg.MountPoint):
		log.Warn("Mount point %s: in use", cfg.MountPoint)
	case exists(cfg.MountPoint):
		log.Success("Mount point %s: ready", cfg.MountPoint)
	default:
		log.Info("Mount point %s: will be created", cfg.MountPoint)
	}
}

func checkCache(cfg *config.Config, log Logger) {
	files, err := playlist.NewResolver(cfg.Extensions).Resolve(cfg.CacheDir)
	if err != nil {
		log.Info("Playlist on SD card (%s): none", cfg.CacheDir)
		return
	}
	log.Success("Playlist on SD card (%s): %d media file(s)", cfg.CacheDir, len(files))
}

// CheckDeps is the pre-run validation: the player and the mount tools must be
// on PATH. Returns a sentinel error on failure. ffprobe is not required here;
// see CheckProbe.
func CheckDeps(cfg *config.Config) error {
	if _, err := lookPath(cfg.PlayerCommand); err != nil {
		return ErrPlayerNotFound
	}
	if _, err := lookPath(cfg.MountCommand); err != nil {
		return ErrMountNotFound
	}
	if _, err := lookPath(cfg.UmountCommand); err != nil {
		return ErrMountNotFound
	}
	return nil
}

// CheckProbe reports ErrProbeNotFound when ffprobe is missing. Playback still
// works without it: every file is then reported as undecodable.
func CheckProbe(cfg *config.Config) error {
	if _, err := lookPath(cfg.ProbeCommand); err != nil {
		return ErrProbeNotFound
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
