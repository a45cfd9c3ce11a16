package playlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/brownieplayer/internal/config"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644))
	}
}

func defaultResolver() *Resolver {
	return NewResolver(config.DefaultConfig().Extensions)
}

func TestResolve_FiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.mp4", "a.MOV", ".hidden.mp4", "c.txt")

	files, err := defaultResolver().Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.MOV"),
		filepath.Join(dir, "b.mp4"),
	}, files)
}

func TestResolve_Idempotent(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "03.avi", "01.mpg", "02.mp4", "10.MP4")

	r := defaultResolver()
	first, err := r.Resolve(dir)
	require.NoError(t, err)
	second, err := r.Resolve(dir)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// Byte order: uppercase and digits sort before lowercase.
	assert.Equal(t, filepath.Join(dir, "01.mpg"), first[0])
	assert.Equal(t, filepath.Join(dir, "10.MP4"), first[3])
}

func TestResolve_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.mp4"), 0o755))
	touch(t, dir, "clip.mp4")

	files, err := defaultResolver().Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "clip.mp4")}, files)
}

func TestResolve_EmptyDirectory(t *testing.T) {
	files, err := defaultResolver().Resolve(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestResolve_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "clip.mp4")

	_, err := defaultResolver().Resolve(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, ErrNotDirectory)

	_, err = defaultResolver().Resolve(filepath.Join(dir, "clip.mp4"))
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestResolve_UnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits do not apply to root")
	}
	dir := t.TempDir()
	touch(t, dir, "a.mp4")
	require.NoError(t, os.Chmod(dir, 0o000))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	_, err := defaultResolver().Resolve(dir)
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestMatch(t *testing.T) {
	r := defaultResolver()
	cases := map[string]bool{
		"intro.mp4":     true,
		"intro.MOV":     true,
		"intro.Mp4":     false,
		"intro.mkv":     false,
		".intro.mp4":    false,
		"mp4":           false,
		"intro.mp4.txt": false,
		"a.b.mpg":       true,
	}
	for name, want := range cases {
		assert.Equal(t, want, r.Match(name), name)
	}
}

func TestReadTitle_Unreadable(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "plain.mp4")

	assert.Equal(t, "", ReadTitle(filepath.Join(dir, "plain.mp4")))
	assert.Equal(t, "", ReadTitle(filepath.Join(dir, "missing.mp4")))
}
