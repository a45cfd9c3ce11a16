// Package command runs external programs (ffprobe, the player, mount) and
// turns failures into a single descriptive error line carrying the program
// name and its captured output.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// maxOutput bounds how much captured stdout/stderr an Error message repeats.
const maxOutput = 512

// Error describes a failed external command.
type Error struct {
	Name   string
	Args   []string
	Stdout string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s failed: %v", e.Name, e.Err)
	if s := oneLine(e.Stdout); s != "" {
		fmt.Fprintf(&b, "; stdout: %s", s)
	}
	if s := oneLine(e.Stderr); s != "" {
		fmt.Fprintf(&b, "; stderr: %s", s)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// ExitCode returns the process exit code, or -1 when the process did not run
// or was killed by a signal.
func (e *Error) ExitCode() int {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Output runs name with args, waits for it to exit, and returns its stdout.
// A nonzero exit (or a failure to start) returns an *Error with both streams.
func Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), &Error{
			Name:   name,
			Args:   args,
			Stdout: stdout.String(),
			Stderr: stderr.String(),
			Err:    err,
		}
	}
	return stdout.Bytes(), nil
}

// Line renders name and args as a shell-like string for log messages.
func Line(name string, args ...string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

// oneLine collapses whitespace so the error stays on one console line.
func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxOutput {
		s = "…" + s[len(s)-maxOutput:]
	}
	return s
}
