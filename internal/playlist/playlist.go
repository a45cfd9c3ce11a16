// Package playlist lists the playable files of a directory in playback order.
package playlist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/dhowden/tag"
)

// ErrNotDirectory is returned when the playlist directory is missing, is
// not a directory, or cannot be listed.
var ErrNotDirectory = errors.New("playlist directory not found")

// Resolver filters directory entries by name. Matching is case-sensitive:
// "clip.Mp4" is not selected unless "Mp4" is one of the extensions.
type Resolver struct {
	re *regexp.Regexp
}

// NewResolver builds a resolver for the given extensions (without dots).
func NewResolver(extensions []string) *Resolver {
	quoted := make([]string, len(extensions))
	for i, ext := range extensions {
		quoted[i] = regexp.QuoteMeta(ext)
	}
	return &Resolver{re: regexp.MustCompile(`^[^.].*\.(` + strings.Join(quoted, "|") + `)$`)}
}

// Match reports whether a file name is a playlist candidate: not hidden and
// ending in one of the extensions.
func (r *Resolver) Match(name string) bool {
	return r.re.MatchString(name)
}

// Resolve returns the absolute paths of matching files directly inside dir,
// sorted by file name. Subdirectories are not descended into. An empty slice
// means the directory exists but holds nothing playable.
func (r *Resolver) Resolve(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotDirectory, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !r.Match(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	files := make([]string, len(names))
	for i, name := range names {
		files[i] = filepath.Join(abs, name)
	}
	return files, nil
}

// ReadTitle returns the title stored in the file's metadata (MP4/MOV atoms,
// ID3), or "" when there is none or the file cannot be read.
func ReadTitle(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(m.Title())
}
