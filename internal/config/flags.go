package config

// This file implements CLI flag parsing and help text. The player normally
// runs from an init script with no arguments; flags exist for diagnostics
// and for pointing at a non-default config file.

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrHelp is returned by ParseFlags after --help or --version printed their
// output; the caller should exit successfully.
var ErrHelp = flag.ErrHelp

// ParseFlags parses args (without the program name) into cfg. The config
// file named by --config (or the default path) is loaded first and flags are
// applied on top, so command-line values always win.
func ParseFlags(cfg *Config, args []string, version string) error {
	fs := flag.NewFlagSet("brownieplayer", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configPath            = cfg.ConfigPath
		metricsFile           string
		writeConfig           string
		forceColor, noColor   bool
		showVersion, showHelp bool
	)

	fs.StringVar(&configPath, "config", configPath, "Config file (TOML)")
	fs.StringVar(&configPath, "C", configPath, "Same as --config")
	fs.StringVar(&metricsFile, "metrics", "", "Write run metrics to this textfile")
	fs.BoolVar(&forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file (JSON lines)")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
	fs.StringVar(&writeConfig, "write-config", "", "Write the effective config to a TOML file and exit")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&showVersion, "V", false, "Same as --version")
	fs.BoolVar(&showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&showHelp, "h", false, "Same as --help")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			printUsage(os.Stderr, version)
		}
		return err
	}

	if showHelp {
		printUsage(os.Stderr, version)
		return ErrHelp
	}
	if showVersion {
		fmt.Fprintln(os.Stdout, "brownieplayer v"+version)
		return ErrHelp
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q (brownieplayer takes no positional arguments)", fs.Arg(0))
	}

	cfg.ConfigPath = configPath
	if err := LoadFile(configPath, cfg); err != nil {
		return err
	}

	if metricsFile != "" {
		cfg.MetricsFile = metricsFile
	}
	if noColor {
		cfg.ColorMode = ColorNever
	} else if forceColor {
		cfg.ColorMode = ColorAlways
	}

	if writeConfig != "" {
		if err := SaveFile(writeConfig, cfg); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "wrote "+writeConfig)
		return ErrHelp
	}
	return nil
}

// printUsage writes the help text. Column-aligned for readability.
func printUsage(w io.Writer, version string) {
	const col1 = 26
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "BrowniePlayer v" + version + " - USB kiosk video player"},
		{"", ""},
		{"  brownieplayer [OPTIONS]", ""},
		{"", ""},
		{"Configuration", ""},
		{"  -C, --config <path>", "TOML config file (default: " + DefaultConfigPath + ")"},
		{"  --metrics <path>", "Write run metrics (node_exporter textfile)"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append JSON logs to file"},
		{"  -c, --check", "System diagnostics (ffprobe, player, USB, cache)"},
		{"  --write-config <path>", "Write the effective config as TOML and exit"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		switch {
		case l.flags == "" && l.desc == "":
			fmt.Fprintln(w)
		case l.desc == "":
			fmt.Fprintln(w, l.flags)
		case l.flags == "":
			fmt.Fprintln(w, l.desc)
		default:
			padding := col1 - len(l.flags)
			if padding < 1 {
				padding = 1
			}
			fmt.Fprintf(w, "%s%s%s\n", l.flags, strings.Repeat(" ", padding), l.desc)
		}
	}
}
