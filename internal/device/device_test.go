package device

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestIsBlockDevice(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sda1")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	assert.False(t, IsBlockDevice(file), "regular file")
	assert.False(t, IsBlockDevice(dir), "directory")
	assert.False(t, IsBlockDevice(filepath.Join(dir, "missing")))
}

func TestIsMountPoint(t *testing.T) {
	assert.True(t, IsMountPoint("/"))

	dir := t.TempDir()
	sub := filepath.Join(dir, "usb")
	require.NoError(t, os.Mkdir(sub, 0o755))
	assert.False(t, IsMountPoint(sub))
	assert.False(t, IsMountPoint(filepath.Join(dir, "missing")))
}

func TestFinder_PriorityOrder(t *testing.T) {
	dir := t.TempDir()
	sda1 := filepath.Join(dir, "sda1")
	sda := filepath.Join(dir, "sda")
	require.NoError(t, os.WriteFile(sda, nil, 0o644))
	require.NoError(t, os.WriteFile(sda1, nil, 0o644))

	f := &Finder{Candidates: []string{sda1, sda}, isDevice: exists}
	got, ok := f.Find(context.Background())
	require.True(t, ok)
	assert.Equal(t, sda1, got)
}

func TestFinder_NoneFound(t *testing.T) {
	dir := t.TempDir()
	f := &Finder{Candidates: []string{filepath.Join(dir, "sda1")}, isDevice: exists}

	_, ok := f.Find(context.Background())
	assert.False(t, ok)
}

func TestFinder_FallsBackAfterWait(t *testing.T) {
	dir := t.TempDir()
	sda := filepath.Join(dir, "sda")
	require.NoError(t, os.WriteFile(sda, nil, 0o644))

	f := &Finder{
		Candidates: []string{filepath.Join(dir, "sda1"), sda},
		Wait:       50 * time.Millisecond,
		isDevice:   exists,
	}
	got, ok := f.Find(context.Background())
	require.True(t, ok)
	assert.Equal(t, sda, got)
}

func TestFinder_WaitsForPartition(t *testing.T) {
	dir := t.TempDir()
	sda1 := filepath.Join(dir, "sda1")
	sda := filepath.Join(dir, "sda")
	require.NoError(t, os.WriteFile(sda, nil, 0o644))

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = os.WriteFile(sda1, nil, 0o644)
	}()

	f := &Finder{Candidates: []string{sda1, sda}, Wait: 5 * time.Second, isDevice: exists}
	start := time.Now()
	got, ok := f.Find(context.Background())
	require.True(t, ok)
	assert.Equal(t, sda1, got)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestFinder_UnwatchableDirsWaitOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	sda1 := filepath.Join(dir, "sda1")
	sda := filepath.Join(dir, "sda")

	start := time.Now()
	present := func(path string) bool {
		// The partition shows up partway through the wait.
		return path == sda || time.Since(start) > 20*time.Millisecond
	}

	f := &Finder{Candidates: []string{sda1, sda}, Wait: 60 * time.Millisecond, isDevice: present}
	got, ok := f.Find(context.Background())
	require.True(t, ok)
	assert.Equal(t, sda1, got)
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestFinder_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &Finder{Candidates: []string{filepath.Join(t.TempDir(), "sda1")}, Wait: time.Hour, isDevice: exists}
	_, ok := f.Find(ctx)
	assert.False(t, ok)
}

func TestMounter_CommandFailure(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "mount")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho 'wrong fs type' >&2\nexit 32\n"), 0o755))

	m := Mounter{MountCommand: script}
	err := m.Mount(context.Background(), "/dev/sda1", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrong fs type")
}

func TestMounter_Arguments(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args")
	script := filepath.Join(dir, "mount")
	body := "#!/bin/sh\necho \"$@\" > " + argsFile + "\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0o755))

	m := Mounter{MountCommand: script, UmountCommand: script}
	require.NoError(t, m.Mount(context.Background(), "/dev/sda1", "/mnt/usb"))
	got, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "-o ro /dev/sda1 /mnt/usb\n", string(got))

	require.NoError(t, m.Unmount(context.Background(), "/mnt/usb"))
	got, err = os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "/mnt/usb\n", string(got))
}
