package indexfile

import (
	"sync"

	bplus "DaemonDB/storage_engine/access/indexfile_manager/bplustree"
	"DaemonDB/storage_engine/bufferpool"
	"DaemonDB/storage_engine/catalog"
	diskmanager "DaemonDB/storage_engine/disk_manager"
)

// Manager owns every open B+tree index in a database directory, mapping
// table names to their primary index, mirroring heapfile.Manager's
// table-name-to-file bookkeeping.
type Manager struct {
	baseDir     string
	indexes     map[string]*bplus.BPTreeIndex
	fileIDs     map[string]uint32
	bufferPool  *bufferpool.Manager
	diskManager *diskmanager.Manager
	catalog     *catalog.Cache // optional; nil disables Reopen
	mu          sync.RWMutex
}
