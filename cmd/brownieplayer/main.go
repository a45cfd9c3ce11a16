// Command brownieplayer is the kiosk entrypoint: it finds the USB drive or
// the SD card playlist, reports on every video, and plays the playlist in a
// loop on the attached display.
//
// It normally runs with no arguments from the boot script; flags exist for
// diagnostics (--check) and for pointing at a config file.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/backmassage/brownieplayer/internal/check"
	"github.com/backmassage/brownieplayer/internal/config"
	"github.com/backmassage/brownieplayer/internal/logging"
	"github.com/backmassage/brownieplayer/internal/pipeline"
)

// version is injected at build time via -ldflags.
var version = "1.0.0"

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, os.Args[1:], version); err != nil {
		if errors.Is(err, config.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "brownieplayer: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "brownieplayer: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "brownieplayer: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Signal handling. Cancelling the context stops the player
	// and unwinds the run, which still unmounts the drive.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.CheckOnly {
		if !check.RunCheck(ctx, &cfg, log) {
			return 1
		}
		return 0
	}

	log.Debug("Run %s, config %s", log.RunID(), cfg.ConfigPath)

	// Fail fast if the player or the mount tools are missing. Without
	// ffprobe the playlist still plays; each file reports a decode error.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("Error: %v", err)
		return 1
	}
	if err := check.CheckProbe(&cfg); err != nil {
		log.Warn("Warning: %v", err)
	}

	// Phase 3: One session. Interrupts end it quietly.
	code := 0
	if err := pipeline.Run(ctx, &cfg, log, version); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Error: %v", err)
		code = 1
	}

	log.Blank()
	log.Info("Exiting")
	log.Rule()
	return code
}
