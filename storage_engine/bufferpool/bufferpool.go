// Package bufferpool implements the buffer pool manager (§4.2): the
// mediator between disk-resident pages and the fixed-size in-memory
// frame table, evicting via a pluggable replacer (LRU or LRU-K) when
// every frame is occupied. One mutex protects the whole frame table and
// is held across disk I/O — deliberately coarse-grained (§5).
package bufferpool

import (
	"fmt"

	"DaemonDB/storage_engine/errs"
	"DaemonDB/storage_engine/page"
	"DaemonDB/storage_engine/replacer"
)

// Verbose gates the buffer pool's operational trace lines, matching the
// teacher's own fmt.Printf-based tracing convention without spamming
// stdout in normal library use.
var Verbose = false

func tracef(format string, args ...any) {
	if Verbose {
		fmt.Printf(format+"\n", args...)
	}
}

// New constructs a buffer pool with capacity frames, backed by dm, and
// using the named replacer policy ("LRU" or "LRUK"; k is only used by
// LRUK). Unknown policy names panic, per replacer.New.
func New(capacity int, dm DiskManager, replacerName string, k int) *Manager {
	frames := make([]*page.Page, capacity)
	freeList := make([]replacer.FrameID, capacity)
	for i := 0; i < capacity; i++ {
		frames[i] = page.New()
		freeList[i] = replacer.FrameID(i)
	}

	return &Manager{
		frames:      frames,
		pageTable:   make(map[pageKey]replacer.FrameID, capacity),
		frameToKey:  make(map[replacer.FrameID]pageKey, capacity),
		freeList:    freeList,
		replacer:    replacer.New(replacerName, capacity, k),
		diskManager: dm,
	}
}

// getAvailableFrame returns a frame ready to host a new resident page:
// either one from the free list, or the replacer's chosen victim,
// flushed first if dirty. Caller must hold mu. Returns errs.ErrNoFreeFrame
// if every frame is pinned.
func (bp *Manager) getAvailableFrame() (replacer.FrameID, error) {
	if n := len(bp.freeList); n > 0 {
		fid := bp.freeList[n-1]
		bp.freeList = bp.freeList[:n-1]
		return fid, nil
	}

	fid, ok := bp.replacer.Victim()
	if !ok {
		return replacer.InvalidFrameID, errs.ErrNoFreeFrame
	}

	if key, resident := bp.frameToKey[fid]; resident {
		pg := bp.frames[fid]
		if pg.IsDirty {
			if err := bp.diskManager.WritePage(pg.FileID, pg.PageID, pg.Data); err != nil {
				bp.replacer.Unpin(fid) // victim selection failed, leave it evictable for a retry
				return replacer.InvalidFrameID, fmt.Errorf("flush victim page %d of file %d: %w", pg.PageID, pg.FileID, err)
			}
		}
		delete(bp.pageTable, key)
		delete(bp.frameToKey, fid)
		tracef("[BufferPool] EVICT fileID=%d pageID=%d frame=%d", key.fileID, key.pageID, fid)
	}

	return fid, nil
}

// FetchPage returns the page (fileID, pageID), pinned. It is a cache hit
// if already resident, otherwise it evicts to make room and reads the
// page from disk.
func (bp *Manager) FetchPage(fileID uint32, pageID int64) (*page.Page, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	key := pageKey{fileID, pageID}
	if fid, ok := bp.pageTable[key]; ok {
		pg := bp.frames[fid]
		pg.Pin()
		bp.replacer.Pin(fid)
		tracef("[BufferPool] HIT fileID=%d pageID=%d frame=%d", fileID, pageID, fid)
		return pg, nil
	}

	fid, err := bp.getAvailableFrame()
	if err != nil {
		return nil, fmt.Errorf("bufferpool: fetch page %d of file %d: %w", pageID, fileID, err)
	}

	pg := bp.frames[fid]
	pg.Reset()
	pg.SetFilePageID(fileID, pageID)
	if err := bp.diskManager.ReadPage(fileID, pageID, pg.Data); err != nil {
		bp.freeList = append(bp.freeList, fid)
		return nil, fmt.Errorf("bufferpool: read page %d of file %d: %w", pageID, fileID, err)
	}

	pg.Pin()
	bp.pageTable[key] = fid
	bp.frameToKey[fid] = key
	bp.replacer.Pin(fid)
	tracef("[BufferPool] MISS fileID=%d pageID=%d frame=%d", fileID, pageID, fid)
	return pg, nil
}

// NewPage claims a frame for a page that does not yet exist on disk
// (identity already decided by the caller — the B+tree or table header's
// own page-allocation bookkeeping) and returns it pinned and dirty, with
// zeroed content.
func (bp *Manager) NewPage(fileID uint32, pageID int64) (*page.Page, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	key := pageKey{fileID, pageID}
	if _, exists := bp.pageTable[key]; exists {
		return nil, fmt.Errorf("bufferpool: page %d of file %d is already resident", pageID, fileID)
	}

	fid, err := bp.getAvailableFrame()
	if err != nil {
		return nil, fmt.Errorf("bufferpool: new page %d of file %d: %w", pageID, fileID, err)
	}

	pg := bp.frames[fid]
	pg.Reset()
	pg.SetFilePageID(fileID, pageID)
	pg.IsDirty = true
	pg.Pin()
	bp.pageTable[key] = fid
	bp.frameToKey[fid] = key
	bp.replacer.Pin(fid)
	tracef("[BufferPool] NEW fileID=%d pageID=%d frame=%d", fileID, pageID, fid)
	return pg, nil
}

// UnpinPage releases one pin on (fileID, pageID). isDirty, if true,
// marks the page dirty even if the caller made no visible change (the
// page becomes eligible for eviction once its pin count reaches zero).
func (bp *Manager) UnpinPage(fileID uint32, pageID int64, isDirty bool) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	key := pageKey{fileID, pageID}
	fid, ok := bp.pageTable[key]
	if !ok {
		return fmt.Errorf("bufferpool: unpin page %d of file %d: %w", pageID, fileID, errs.ErrPageMiss)
	}

	pg := bp.frames[fid]
	if isDirty {
		pg.IsDirty = true
	}
	if pg.PinCount == 0 {
		return fmt.Errorf("bufferpool: unpin page %d of file %d: already unpinned", pageID, fileID)
	}
	pg.Unpin()
	if pg.PinCount == 0 {
		bp.replacer.Unpin(fid)
	}
	tracef("[BufferPool] UNPIN fileID=%d pageID=%d frame=%d dirty=%t pins=%d", fileID, pageID, fid, pg.IsDirty, pg.PinCount)
	return nil
}

// FlushPage writes (fileID, pageID)'s current content to disk if
// resident, regardless of its dirty bit.
func (bp *Manager) FlushPage(fileID uint32, pageID int64) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	key := pageKey{fileID, pageID}
	fid, ok := bp.pageTable[key]
	if !ok {
		return fmt.Errorf("bufferpool: flush page %d of file %d: %w", pageID, fileID, errs.ErrPageMiss)
	}
	pg := bp.frames[fid]
	if err := bp.diskManager.WritePage(pg.FileID, pg.PageID, pg.Data); err != nil {
		return fmt.Errorf("bufferpool: flush page %d of file %d: %w", pageID, fileID, err)
	}
	pg.IsDirty = false
	tracef("[BufferPool] FLUSH fileID=%d pageID=%d frame=%d", fileID, pageID, fid)
	return nil
}

// FlushAllPages writes every dirty resident page to disk.
func (bp *Manager) FlushAllPages() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	for key, fid := range bp.pageTable {
		pg := bp.frames[fid]
		if !pg.IsDirty {
			continue
		}
		if err := bp.diskManager.WritePage(pg.FileID, pg.PageID, pg.Data); err != nil {
			return fmt.Errorf("bufferpool: flush all: page %d of file %d: %w", key.pageID, key.fileID, err)
		}
		pg.IsDirty = false
	}
	tracef("[BufferPool] FLUSH ALL")
	return nil
}

// deletePageLocked removes key's page from the frame table and returns
// its frame to the free list. Caller must hold mu.
func (bp *Manager) deletePageLocked(key pageKey) error {
	fid, ok := bp.pageTable[key]
	if !ok {
		return nil
	}
	pg := bp.frames[fid]
	if pg.PinCount > 0 {
		return fmt.Errorf("bufferpool: cannot delete pinned page %d of file %d", key.pageID, key.fileID)
	}
	bp.replacer.Pin(fid) // strip it out of the evictable set without re-inserting
	delete(bp.pageTable, key)
	delete(bp.frameToKey, fid)
	pg.Reset()
	bp.freeList = append(bp.freeList, fid)
	return nil
}

// DeletePage evicts (fileID, pageID) from the buffer pool without
// flushing it; the caller is responsible for reclaiming the page's
// on-disk slot (e.g. via a free-page chain). A page that is not
// resident is a no-op; a pinned page returns an error.
func (bp *Manager) DeletePage(fileID uint32, pageID int64) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.deletePageLocked(pageKey{fileID, pageID})
}

// DeleteAllPages evicts every resident page without flushing any of
// them. Fails on the first pinned page encountered.
func (bp *Manager) DeleteAllPages() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	for key := range bp.pageTable {
		if err := bp.deletePageLocked(key); err != nil {
			return err
		}
	}
	return nil
}

// Stats reports the buffer pool's current occupancy (§6 of SPEC_FULL —
// wires up the introspection the teacher's dead BufferPoolStats struct
// was meant for).
func (bp *Manager) Stats() Stats {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	s := Stats{
		Capacity:   len(bp.frames),
		Resident:   len(bp.pageTable),
		FreeFrames: len(bp.freeList),
	}
	for _, fid := range bp.pageTable {
		pg := bp.frames[fid]
		if pg.PinCount > 0 {
			s.PinnedPages++
		}
		if pg.IsDirty {
			s.DirtyPages++
		}
	}
	return s
}
