// Package logging provides the tagged console logger and the optional JSON
// log file sink.
//
// Every console line has the shape "BrowniePlayer: <text>", with the tag in
// brown and the text colored by level. The file sink receives the same
// messages as structured zerolog entries tagged with a per-run id.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/backmassage/brownieplayer/internal/config"
	"github.com/backmassage/brownieplayer/internal/term"
)

// Tag prefixes every console line.
const Tag = "BrowniePlayer:"

// ruleWidth is the length of the separator line.
const ruleWidth = 80

// Logger provides leveled, optionally colored logging with an optional file sink.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	palette term.Palette
	verbose bool
	runID   string

	file *os.File
	sink zerolog.Logger
}

// NewLogger initializes colors from cfg and optionally opens cfg.LogFile.
// Call Close when done.
func NewLogger(cfg *config.Config) (*Logger, error) {
	l := New(os.Stdout, cfg.ColorMode, cfg.Verbose)

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		l.sink = zerolog.New(f).With().Timestamp().Str("run_id", l.runID).Logger()
	}
	return l, nil
}

// New returns a console-only logger writing to w.
func New(w io.Writer, mode config.ColorMode, verbose bool) *Logger {
	return &Logger{
		out:     w,
		palette: term.NewPalette(w, mode),
		verbose: verbose,
		runID:   uuid.NewString(),
		sink:    zerolog.Nop(),
	}
}

// RunID identifies this process run in the log file.
func (l *Logger) RunID() string { return l.runID }

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		l.sink = zerolog.Nop()
		return err
	}
	return nil
}

func (l *Logger) line(level zerolog.Level, style lipgloss.Style, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rendered := l.palette.Tag.Render(Tag) + " "
	if text != "" {
		rendered += style.Render(text)
	}
	_, _ = io.WriteString(l.out, rendered+"\n")

	if text != "" {
		l.sink.WithLevel(level).Msg(strings.TrimSpace(text))
	}
}

// Info logs at info level (uncolored text).
func (l *Logger) Info(format string, args ...interface{}) {
	l.line(zerolog.InfoLevel, l.palette.Plain, fmt.Sprintf(format, args...))
}

// Success logs at info level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.line(zerolog.InfoLevel, l.palette.Success, fmt.Sprintf(format, args...))
}

// Warn logs at warn level (red, matching the warnings of the stock image).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.line(zerolog.WarnLevel, l.palette.Warn, fmt.Sprintf(format, args...))
}

// Error logs at error level (red).
func (l *Logger) Error(format string, args ...interface{}) {
	l.line(zerolog.ErrorLevel, l.palette.Error, fmt.Sprintf(format, args...))
}

// Debug logs at debug level (cyan) only when verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.line(zerolog.DebugLevel, l.palette.Debug, fmt.Sprintf(format, args...))
}

// Blank prints the bare tag, the spacer line of the console layout.
func (l *Logger) Blank() {
	l.line(zerolog.NoLevel, l.palette.Plain, "")
}

// Rule prints a separator line in the tag color. Console only.
func (l *Logger) Rule() {
	l.mu.Lock()
	defer l.mu.Unlock()
	rule := l.palette.Tag.Render(Tag + " " + strings.Repeat("_", ruleWidth))
	_, _ = io.WriteString(l.out, rule+"\n")
}
