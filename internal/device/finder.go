package device

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Finder picks the first block device among Candidates.
type Finder struct {
	Candidates []string      // Priority order, e.g. /dev/sda1 before /dev/sda.
	Wait       time.Duration // How long to wait for a better candidate to appear.

	isDevice func(string) bool
}

// NewFinder returns a Finder over candidates that waits up to wait for the
// drive to settle.
func NewFinder(candidates []string, wait time.Duration) *Finder {
	return &Finder{Candidates: candidates, Wait: wait}
}

// Find returns the highest-priority candidate that is a block device.
//
// A drive plugged in at boot may still be enumerating: the whole-disk node
// can exist before its partition does. Find therefore returns at once only
// when the first candidate is present; otherwise it watches the candidates'
// directories until that candidate appears or Wait elapses, then returns
// the best one found.
func (f *Finder) Find(ctx context.Context) (string, bool) {
	best := f.best()
	if f.Wait <= 0 || best == 0 {
		return f.result(best)
	}

	deadline := time.NewTimer(f.Wait)
	defer deadline.Stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return f.waitFixed(ctx, deadline)
	}
	defer watcher.Close()

	watched := 0
	for _, dir := range f.dirs() {
		if watcher.Add(dir) == nil {
			watched++
		}
	}
	if watched == 0 {
		return f.waitFixed(ctx, deadline)
	}

	for {
		select {
		case <-ctx.Done():
			return f.result(f.best())
		case <-deadline.C:
			return f.result(f.best())
		case _, ok := <-watcher.Events:
			if !ok {
				return f.result(f.best())
			}
			if f.best() == 0 {
				return f.result(0)
			}
		case _, ok := <-watcher.Errors:
			if !ok {
				return f.result(f.best())
			}
		}
	}
}

// waitFixed is used when the directories cannot be watched: it waits out the
// deadline once and takes whatever is present then.
func (f *Finder) waitFixed(ctx context.Context, deadline *time.Timer) (string, bool) {
	select {
	case <-ctx.Done():
	case <-deadline.C:
	}
	return f.result(f.best())
}

// best returns the index of the first present candidate, or -1.
func (f *Finder) best() int {
	check := f.isDevice
	if check == nil {
		check = IsBlockDevice
	}
	for i, c := range f.Candidates {
		if check(c) {
			return i
		}
	}
	return -1
}

func (f *Finder) result(i int) (string, bool) {
	if i < 0 {
		return "", false
	}
	return f.Candidates[i], true
}

// dirs returns the distinct parent directories of the candidates.
func (f *Finder) dirs() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range f.Candidates {
		d := filepath.Dir(c)
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}
