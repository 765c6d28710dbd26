package bufferpool

import "DaemonDB/storage_engine/page"

// ReadPageGuard pins a page for the duration of a read and guarantees
// exactly one matching UnpinPage call. It is movable but not copyable in
// spirit (§4.3): callers should pass it by pointer and never duplicate
// the underlying pin. Go has no destructors, so Drop must be called
// explicitly once the guard is no longer needed; a deferred Drop right
// after acquiring the guard is the idiomatic pattern used throughout
// this codebase, mirroring the teacher's defer-based unpin discipline.
type ReadPageGuard struct {
	bp       *Manager
	pg       *page.Page
	released bool
}

func newReadPageGuard(bp *Manager, pg *page.Page) *ReadPageGuard {
	return &ReadPageGuard{bp: bp, pg: pg}
}

// Data returns the guarded page's full byte buffer, read-only by
// convention (nothing prevents mutation in Go, but callers of a read
// guard must not write through it).
func (g *ReadPageGuard) Data() []byte { return g.pg.Data }

// PageID returns the identity of the guarded page.
func (g *ReadPageGuard) PageID() int64 { return g.pg.PageID }

// FileID returns the file the guarded page belongs to.
func (g *ReadPageGuard) FileID() uint32 { return g.pg.FileID }

// Drop releases the pin early. Safe to call multiple times; only the
// first call has effect. Guards left un-Dropped leak a pin, exactly like
// forgetting to call UnpinPage directly.
func (g *ReadPageGuard) Drop() {
	if g.released {
		return
	}
	g.released = true
	_ = g.bp.UnpinPage(g.pg.FileID, g.pg.PageID, false)
}

// WritePageGuard pins a page for the duration of a write and marks it
// dirty when released, guaranteeing exactly one matching UnpinPage call.
type WritePageGuard struct {
	bp       *Manager
	pg       *page.Page
	released bool
}

func newWritePageGuard(bp *Manager, pg *page.Page) *WritePageGuard {
	return &WritePageGuard{bp: bp, pg: pg}
}

// Data returns the guarded page's full mutable byte buffer.
func (g *WritePageGuard) Data() []byte { return g.pg.Data }

// PageID returns the identity of the guarded page.
func (g *WritePageGuard) PageID() int64 { return g.pg.PageID }

// FileID returns the file the guarded page belongs to.
func (g *WritePageGuard) FileID() uint32 { return g.pg.FileID }

// Drop releases the pin early, marking the page dirty. Safe to call
// multiple times.
func (g *WritePageGuard) Drop() {
	if g.released {
		return
	}
	g.released = true
	_ = g.bp.UnpinPage(g.pg.FileID, g.pg.PageID, true)
}

// FetchPageRead fetches (fileID, pageID) and returns it behind a
// ReadPageGuard.
func (bp *Manager) FetchPageRead(fileID uint32, pageID int64) (*ReadPageGuard, error) {
	pg, err := bp.FetchPage(fileID, pageID)
	if err != nil {
		return nil, err
	}
	return newReadPageGuard(bp, pg), nil
}

// FetchPageWrite fetches (fileID, pageID) and returns it behind a
// WritePageGuard.
func (bp *Manager) FetchPageWrite(fileID uint32, pageID int64) (*WritePageGuard, error) {
	pg, err := bp.FetchPage(fileID, pageID)
	if err != nil {
		return nil, err
	}
	return newWritePageGuard(bp, pg), nil
}

// NewPageGuard allocates a brand new page and returns it behind a
// WritePageGuard, since a freshly allocated page always needs
// initialization.
func (bp *Manager) NewPageGuard(fileID uint32, pageID int64) (*WritePageGuard, error) {
	pg, err := bp.NewPage(fileID, pageID)
	if err != nil {
		return nil, err
	}
	return newWritePageGuard(bp, pg), nil
}
