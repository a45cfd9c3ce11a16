// Package device finds the removable drive, mounts it read-only, and
// answers mount-point queries.
package device

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/backmassage/brownieplayer/internal/command"
)

// IsBlockDevice reports whether path exists and is a block special file.
func IsBlockDevice(path string) bool {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return false
	}
	return st.Mode&unix.S_IFMT == unix.S_IFBLK
}

// IsMountPoint reports whether dir is the root of a mounted filesystem: it
// lives on a different device than its parent, or it is the root itself.
func IsMountPoint(dir string) bool {
	var st, parent unix.Stat_t
	if err := unix.Lstat(dir, &st); err != nil {
		return false
	}
	if st.Mode&unix.S_IFMT != unix.S_IFDIR {
		return false
	}
	if err := unix.Lstat(filepath.Join(dir, ".."), &parent); err != nil {
		return false
	}
	if st.Dev != parent.Dev {
		return true
	}
	return st.Ino == parent.Ino
}

// Mounter mounts and unmounts through the system mount tools.
type Mounter struct {
	MountCommand  string // Default: "mount".
	UmountCommand string // Default: "umount".
}

// Mount mounts device read-only at dir.
func (m Mounter) Mount(ctx context.Context, device, dir string) error {
	name := m.MountCommand
	if name == "" {
		name = "mount"
	}
	if _, err := command.Output(ctx, name, "-o", "ro", device, dir); err != nil {
		return fmt.Errorf("mount %s at %s: %w", device, dir, err)
	}
	return nil
}

// Unmount unmounts dir.
func (m Mounter) Unmount(ctx context.Context, dir string) error {
	name := m.UmountCommand
	if name == "" {
		name = "umount"
	}
	if _, err := command.Output(ctx, name, dir); err != nil {
		return fmt.Errorf("unmount %s: %w", dir, err)
	}
	return nil
}

// Mounted reports whether dir is currently a mount point.
func (m Mounter) Mounted(dir string) bool {
	return IsMountPoint(dir)
}
