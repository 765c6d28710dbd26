//go:build unix

package diskmanager

import (
	"os"

	"golang.org/x/sys/unix"
)

// fdatasync flushes file data (not metadata) to durable storage, cheaper
// than a full os.File.Sync() when only page contents matter. Mirrors the
// unix-build/fallback split nyan233-sokv makes between sys_unix.go and
// sys_windows.go for its own syscall-backed page storage.
func fdatasync(f *os.File) error {
	return unix.Fdatasync(int(f.Fd()))
}
