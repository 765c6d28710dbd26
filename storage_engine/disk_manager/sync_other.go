//go:build !unix

package diskmanager

import "os"

// fdatasync falls back to a full sync on platforms without a data-only
// flush syscall exposed through golang.org/x/sys/unix.
func fdatasync(f *os.File) error {
	return f.Sync()
}
