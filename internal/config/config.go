// Package config holds runtime configuration: defaults, the optional TOML
// file overlay, CLI flag parsing, and validation. All defaults match the
// original Raspberry Pi image so a device running with no config file and no
// arguments behaves exactly like before.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultConfigPath is read when --config is not given. A missing file is not
// an error.
const DefaultConfigPath = "/etc/brownieplayer/config.toml"

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// CodecPolicy is the set of codecs the hardware decoder handles reliably.
// It is a value type; callers get a copy from [Config.Policy].
type CodecPolicy struct {
	AudioCodecs []string
	VideoCodec  string

	// MaxWidth and MaxHeight are shown in the help screen. They only produce
	// warnings when EnforceMaxResolution is set.
	MaxWidth             int
	MaxHeight            int
	EnforceMaxResolution bool
}

// AcceptsAudio reports whether codec is one of the recommended audio codecs.
func (p CodecPolicy) AcceptsAudio(codec string) bool {
	for _, c := range p.AudioCodecs {
		if c == codec {
			return true
		}
	}
	return false
}

// Config holds all runtime settings. It is populated by [DefaultConfig],
// overlaid by [LoadFile] and [ParseFlags], validated once, and then passed
// (by pointer, read-only) to every component.
type Config struct {
	// Removable device.
	DeviceCandidates  []string `toml:"device_candidates"`   // Checked in order; first block device wins.
	DeviceWaitSeconds int      `toml:"device_wait_seconds"` // Default: 1.
	MountPoint        string   `toml:"mount_point"`         // Default: "/mnt/usb".
	MountCommand      string   `toml:"mount_command"`
	UmountCommand     string   `toml:"umount_command"`

	// Local playlist cache on the SD card.
	CacheDir string `toml:"cache_dir"` // Default: "/home/pi/brownieplayer".

	// MarkerName is the stem of the command marker files and the handoff
	// script on the device root (brownieplayer.clear, brownieplayer.copy, ...).
	MarkerName string `toml:"marker_name"`

	// Playlist filter: case-sensitive extensions without the leading dot.
	Extensions []string `toml:"extensions"`

	// Codec policy.
	AudioCodecs          []string `toml:"audio_codecs"`
	VideoCodec           string   `toml:"video_codec"`
	MaxWidth             int      `toml:"max_width"`
	MaxHeight            int      `toml:"max_height"`
	EnforceMaxResolution bool     `toml:"enforce_max_resolution"`

	// External tools.
	ProbeCommand   string   `toml:"probe_command"`
	PlayerCommand  string   `toml:"player_command"`
	PlayerArgs     []string `toml:"player_args"`
	PlayerLoopFlag string   `toml:"player_loop_flag"`

	// Grace period before playback starts.
	WaitSeconds        int `toml:"wait_seconds"`         // Default: 5.
	WarningWaitSeconds int `toml:"warning_wait_seconds"` // Default: 15.

	// BlankConsole clears tty0 before playback so the log does not show
	// through between videos.
	BlankConsole bool `toml:"blank_console"`

	// Handoff script: only run when its SHA-256 is listed here.
	TrustedScripts    []string `toml:"trusted_scripts"`
	ScriptInterpreter string   `toml:"script_interpreter"`

	// Optional node_exporter textfile.
	MetricsFile string `toml:"metrics_file"`

	// Display and logging (flags only).
	ConfigPath string    `toml:"-"`
	ColorMode  ColorMode `toml:"-"`
	LogFile    string    `toml:"-"`
	Verbose    bool      `toml:"-"`
	CheckOnly  bool      `toml:"-"`
}

// DefaultConfig returns a Config matching the stock SD card image.
func DefaultConfig() Config {
	return Config{
		DeviceCandidates:     []string{"/dev/sda1", "/dev/sda"},
		DeviceWaitSeconds:    1,
		MountPoint:           "/mnt/usb",
		MountCommand:         "mount",
		UmountCommand:        "umount",
		CacheDir:             "/home/pi/brownieplayer",
		MarkerName:           "brownieplayer",
		Extensions:           []string{"mp4", "MP4", "mov", "MOV", "avi", "AVI", "mpg", "MPG"},
		AudioCodecs:          []string{"aac"},
		VideoCodec:           "h264",
		MaxWidth:             1920,
		MaxHeight:            1080,
		EnforceMaxResolution: false,
		ProbeCommand:         "ffprobe",
		PlayerCommand:        "omxplayer",
		PlayerArgs:           []string{"--adev", "both", "--blank", "--display", "7"},
		PlayerLoopFlag:       "--loop",
		WaitSeconds:          5,
		WarningWaitSeconds:   15,
		BlankConsole:         true,
		ScriptInterpreter:    "python3",
		ConfigPath:           DefaultConfigPath,
		ColorMode:            ColorAuto,
	}
}

// Policy returns a copy of the codec policy. The slice is cloned so callers
// cannot mutate the configuration through it.
func (c *Config) Policy() CodecPolicy {
	return CodecPolicy{
		AudioCodecs:          append([]string(nil), c.AudioCodecs...),
		VideoCodec:           c.VideoCodec,
		MaxWidth:             c.MaxWidth,
		MaxHeight:            c.MaxHeight,
		EnforceMaxResolution: c.EnforceMaxResolution,
	}
}

var extensionRe = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Validate checks enum fields and the values the pipeline cannot run without.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.CheckOnly {
		return nil
	}

	if len(c.DeviceCandidates) == 0 {
		return errors.New("device_candidates must not be empty")
	}
	if !filepath.IsAbs(c.MountPoint) {
		return fmt.Errorf("mount_point must be absolute (got %q)", c.MountPoint)
	}
	if !filepath.IsAbs(c.CacheDir) {
		return fmt.Errorf("cache_dir must be absolute (got %q)", c.CacheDir)
	}
	if strings.TrimSpace(c.MarkerName) == "" || strings.ContainsRune(c.MarkerName, '/') {
		return fmt.Errorf("invalid marker_name %q", c.MarkerName)
	}
	if len(c.Extensions) == 0 {
		return errors.New("extensions must not be empty")
	}
	for _, ext := range c.Extensions {
		if !extensionRe.MatchString(ext) {
			return fmt.Errorf("invalid extension %q (letters and digits only, no dot)", ext)
		}
	}
	if len(c.AudioCodecs) == 0 || c.VideoCodec == "" {
		return errors.New("audio_codecs and video_codec must be set")
	}
	if c.ProbeCommand == "" || c.PlayerCommand == "" {
		return errors.New("probe_command and player_command must be set")
	}
	if c.MountCommand == "" || c.UmountCommand == "" {
		return errors.New("mount_command and umount_command must be set")
	}
	if c.WaitSeconds < 0 || c.WarningWaitSeconds < 0 || c.DeviceWaitSeconds < 0 {
		return errors.New("wait times must not be negative")
	}
	for _, digest := range c.TrustedScripts {
		if !isHexDigest(digest) {
			return fmt.Errorf("trusted_scripts entry %q is not a SHA-256 hex digest", digest)
		}
	}
	return nil
}

func isHexDigest(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, r := range strings.ToLower(s) {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
