package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/backmassage/brownieplayer/internal/display"
)

// clearCache deletes everything inside the cache directory. The directory
// itself stays. A missing directory is not an error.
func (s *Selector) clearCache() error {
	dir := s.Config.CacheDir
	if !isDir(dir) {
		return nil
	}
	s.Log.Info("Clearing playlist on SD card...")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrClearFailed, err)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("%w: %w", ErrClearFailed, err)
		}
	}
	return nil
}

// copyToCache empties (or creates) the cache directory and copies every
// playlist file from the drive root into it, flat, keeping base names.
func (s *Selector) copyToCache(ctx context.Context) error {
	dir := s.Config.CacheDir
	if isDir(dir) {
		if err := s.clearCache(); err != nil {
			return err
		}
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrDirectoryCreate, err)
	}

	files, err := s.Resolver.Resolve(s.Config.MountPoint)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCopyFailed, err)
	}

	var total int64
	for _, src := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Log.Info("Copying %s...", src)
		n, err := s.copyFile(src, filepath.Join(dir, filepath.Base(src)))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCopyFailed, err)
		}
		total += n
		s.Metrics.FileCopied(n)
	}
	s.Log.Debug("Copied %d file(s), %s", len(files), display.FormatBytes(total))
	return nil
}

// copyFile copies src to dst through a temporary file in the destination
// directory, so a pulled drive never leaves a truncated video behind.
func (s *Selector) copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	var w io.Writer = tmp
	if s.Progress != nil {
		bar := progressbar.NewOptions64(info.Size(),
			progressbar.OptionSetWriter(s.Progress),
			progressbar.OptionSetDescription(filepath.Base(src)),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(30),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
		w = io.MultiWriter(tmp, bar)
	}

	n, err := io.Copy(w, in)
	if err != nil {
		tmp.Close()
		return n, err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return n, err
	}
	if err := tmp.Close(); err != nil {
		return n, err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return n, err
	}
	return n, os.Rename(tmp.Name(), dst)
}
