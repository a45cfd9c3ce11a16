package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrUntrustedScript is returned for a handoff script whose digest is not
// listed in the configuration.
var ErrUntrustedScript = errors.New("untrusted handoff script")

// ScriptHandoff runs a drive-supplied script only when its SHA-256 digest
// is in Trusted. The script runs with the drive root as working directory,
// inherits the console, and the run ends when it exits.
type ScriptHandoff struct {
	Interpreter string   // e.g. "python3"
	Trusted     []string // Lowercase or uppercase hex SHA-256 digests.
}

// Run verifies and executes script.
func (h ScriptHandoff) Run(ctx context.Context, script string) error {
	digest, err := FileDigest(script)
	if err != nil {
		return fmt.Errorf("read handoff script: %w", err)
	}
	if !h.trusts(digest) {
		return fmt.Errorf("%w %s (sha256 %s)", ErrUntrustedScript, filepath.Base(script), digest)
	}

	cmd := exec.CommandContext(ctx, h.Interpreter, script)
	cmd.Dir = filepath.Dir(script)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("handoff script %s: %w", filepath.Base(script), err)
	}
	return nil
}

func (h ScriptHandoff) trusts(digest string) bool {
	for _, t := range h.Trusted {
		if strings.EqualFold(t, digest) {
			return true
		}
	}
	return false
}

// FileDigest returns the hex SHA-256 of the file at path.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
