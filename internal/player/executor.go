package player

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/backmassage/brownieplayer/internal/command"
	"github.com/backmassage/brownieplayer/internal/config"
)

// stopGrace bounds how long Play waits for the player's output pipes after
// the process group has been signalled.
const stopGrace = 2 * time.Second

// ErrPlaybackFailed is returned when the player exits nonzero or cannot be
// started. It is fatal for the run.
var ErrPlaybackFailed = errors.New("playback failed")

// Player runs the configured player binary.
type Player struct {
	cfg *config.Config
}

// New returns a Player for cfg.
func New(cfg *config.Config) *Player {
	return &Player{cfg: cfg}
}

// Command returns the command line Play would run, for logging.
func (p *Player) Command(path string, loop bool) string {
	args := Build(p.cfg, path, loop)
	return command.Line(args[0], args[1:]...)
}

// Play runs the player on path and waits for it to exit. In verbose mode the
// player's stderr is also copied to os.Stderr as it runs. If ctx is cancelled
// the player's process group is terminated and ctx.Err() is returned.
func (p *Player) Play(ctx context.Context, path string, loop bool) error {
	args := Build(p.cfg, path, loop)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	// omxplayer is a shell wrapper around omxplayer.bin; signal the whole
	// process group so the decoder does not outlive a cancelled run.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return unix.Kill(-cmd.Process.Pid, unix.SIGTERM)
	}
	cmd.WaitDelay = stopGrace

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	if p.cfg.Verbose {
		cmd.Stderr = io.MultiWriter(&stderr, os.Stderr)
	} else {
		cmd.Stderr = &stderr
	}

	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%w: %w", ErrPlaybackFailed, &command.Error{
		Name:   args[0],
		Args:   args[1:],
		Stdout: stdout.String(),
		Stderr: stderr.String(),
		Err:    err,
	})
}
