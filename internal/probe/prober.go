package probe

import (
	"context"
	"errors"
	"fmt"

	"github.com/backmassage/brownieplayer/internal/command"
)

// ErrProbeFailed is returned when ffprobe cannot be run or exits nonzero.
var ErrProbeFailed = errors.New("media probe failed")

// FFprobe inspects files with the ffprobe binary.
type FFprobe struct {
	Binary string // Default: "ffprobe".
}

// Probe runs a single ffprobe call against path and parses its output.
// A nonzero exit wraps both ErrProbeFailed and the *command.Error carrying
// ffprobe's output.
func (p FFprobe) Probe(ctx context.Context, path string) (Sections, error) {
	bin := p.Binary
	if bin == "" {
		bin = "ffprobe"
	}

	out, err := command.Output(ctx, bin,
		"-v", "error",
		"-show_format", "-show_streams",
		path,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProbeFailed, err)
	}

	return Parse(out)
}
