package diskmanager

import (
	"os"
	"sync"
)

// FileDescriptor represents one open backing file (a heap file or an
// index file) managed by the disk manager.
type FileDescriptor struct {
	FileID   uint32
	FilePath string
	File     *os.File
	mu       sync.RWMutex
}

// Manager owns OS file handles and performs raw page I/O keyed directly
// by (file_id, page_id), per §6's disk manager contract. It has no
// notion of what a page contains — that is the buffer pool's and its
// callers' business.
type Manager struct {
	files      map[uint32]*FileDescriptor
	nextFileID uint32
	mu         sync.RWMutex
}
