// Package source decides which directory supplies the playlist for a run:
// the removable drive, the local cache on the SD card, or nothing.
//
// Marker files on the drive root turn a run into a maintenance action
// ("clear" empties the cache, "copy" refills it from the drive). A trusted
// handoff script on the drive root replaces the run entirely.
package source

import (
	"context"
	"errors"
)

// Run-fatal errors. Each wraps the underlying OS or command error.
var (
	ErrMountFailed     = errors.New("mount failed")
	ErrDirectoryCreate = errors.New("cannot create directory")
	ErrCopyFailed      = errors.New("copy to SD card failed")
	ErrClearFailed     = errors.New("clearing SD card playlist failed")
)

// Kind tells where the playlist comes from.
type Kind int

const (
	SourceNone Kind = iota
	SourceRemovable
	SourceCache
)

func (k Kind) String() string {
	switch k {
	case SourceRemovable:
		return "removable"
	case SourceCache:
		return "cache"
	default:
		return "none"
	}
}

// Source is the resolved playlist directory. Dir is empty for SourceNone.
type Source struct {
	Kind Kind
	Dir  string
}

// Command is an instruction left as a marker file on the drive root.
type Command int

const (
	CommandNone Command = iota
	CommandClear
	CommandCopy
)

func (c Command) String() string {
	switch c {
	case CommandClear:
		return "clear"
	case CommandCopy:
		return "copy"
	default:
		return "none"
	}
}

// Selection is the outcome of one Select call.
type Selection struct {
	Source  Source
	Command Command
	Device  string // Block device that was found, if any.

	// Stop is set when the run ends without playback: a clear command ran
	// or the handoff script took over.
	Stop bool
}

// DeviceFinder locates the removable drive.
type DeviceFinder interface {
	Find(ctx context.Context) (string, bool)
}

// Mounter mounts the drive read-only and releases it.
type Mounter interface {
	Mount(ctx context.Context, device, dir string) error
	Unmount(ctx context.Context, dir string) error
	Mounted(dir string) bool
}

// Handoff runs a script found on the drive root. It returns
// ErrUntrustedScript when the script may not run.
type Handoff interface {
	Run(ctx context.Context, script string) error
}

// Logger is the subset of the logger the selector writes to.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}
