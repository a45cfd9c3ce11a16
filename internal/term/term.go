// Package term resolves the console color mode, detects TTYs, and blanks the
// kiosk console before playback.
//
// Styling goes through a lipgloss renderer so the color profile is decided
// once, at startup, instead of by each caller. When colors are disabled the
// renderer uses the ASCII profile and every style renders as plain text.
package term

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	xterm "golang.org/x/term"

	"github.com/backmassage/brownieplayer/internal/config"
)

// Palette holds the styles shared by the logger and the display package.
type Palette struct {
	Tag     lipgloss.Style // "BrowniePlayer:" prefix and separator lines.
	Plain   lipgloss.Style
	Success lipgloss.Style
	Warn    lipgloss.Style
	Error   lipgloss.Style
	Debug   lipgloss.Style
	enabled bool
}

// Enabled reports whether the palette emits ANSI sequences.
func (p Palette) Enabled() bool { return p.enabled }

// NewPalette builds the palette for w under the given color mode.
func NewPalette(w io.Writer, mode config.ColorMode) Palette {
	enabled := Resolve(mode, w)

	r := lipgloss.NewRenderer(w)
	if enabled {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	return Palette{
		Tag:     r.NewStyle().Foreground(lipgloss.Color("3")),
		Plain:   r.NewStyle(),
		Success: r.NewStyle().Foreground(lipgloss.Color("2")),
		Warn:    r.NewStyle().Foreground(lipgloss.Color("1")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("1")),
		Debug:   r.NewStyle().Foreground(lipgloss.Color("6")),
		enabled: enabled,
	}
}

// Resolve determines whether colors should be enabled based on the configured
// mode, TTY detection, and the NO_COLOR env var (https://no-color.org).
func Resolve(mode config.ColorMode, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		f, ok := w.(*os.File)
		return ok && IsTerminal(f) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a TTY.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return xterm.IsTerminal(int(f.Fd()))
}

// BlankConsole hides the text console behind the video: foreground black and
// a full clear on tty0. Best effort; failures are ignored because a visible
// console only affects cosmetics.
func BlankConsole(ctx context.Context) {
	tty, err := os.OpenFile("/dev/tty0", os.O_WRONLY, 0)
	if err != nil {
		return
	}
	defer tty.Close()

	cmd := exec.CommandContext(ctx, "setterm", "-foreground", "black", "-clear", "all")
	cmd.Env = append(os.Environ(), "TERM=linux")
	cmd.Stdout = tty
	_ = cmd.Run()
}
