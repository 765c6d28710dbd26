package bufferpool

import (
	"sync"

	"DaemonDB/storage_engine/page"
	"DaemonDB/storage_engine/replacer"
)

// pageKey identifies a resident page by its (file_id, page_id) pair.
type pageKey struct {
	fileID uint32
	pageID int64
}

// DiskManager is the subset of the on-disk I/O contract the buffer pool
// depends on (§6). Kept as an interface so tests can substitute a fake
// without touching the filesystem.
type DiskManager interface {
	ReadPage(fileID uint32, pageID int64, buf []byte) error
	WritePage(fileID uint32, pageID int64, buf []byte) error
	GetFileName(fileID uint32) (string, error)
}

// Manager is the buffer pool manager: it mediates every access to page
// content, using a fixed-size frame table, a pluggable replacer, and a
// single coarse mutex held across whole operations including disk I/O
// (§5 — deliberately coarse-grained, no per-frame latching).
type Manager struct {
	frames      []*page.Page // fixed-size frame table, index is the frame id
	pageTable   map[pageKey]replacer.FrameID
	frameToKey  map[replacer.FrameID]pageKey
	freeList    []replacer.FrameID
	replacer    replacer.Replacer
	diskManager DiskManager
	mu          sync.Mutex
}

// Stats summarizes the buffer pool's current occupancy, wiring up the
// introspection the original source exposes via BufferPoolManager's
// frame lookups (§6 of SPEC_FULL).
type Stats struct {
	Capacity    int
	Resident    int
	PinnedPages int
	DirtyPages  int
	FreeFrames  int
}
