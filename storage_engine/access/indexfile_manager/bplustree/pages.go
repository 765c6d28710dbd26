package bplus

import "DaemonDB/storage_engine/page"

// allocatePage returns a pinned page ready to be initialized as a node:
// the head of the free-page chain if non-empty (its old bytes are left
// in place), otherwise a freshly numbered, zeroed page (bumping the
// header's page count). Caller must hold t.mu for writing.
func (t *BPTreeIndex) allocatePage() (*page.Page, error) {
	h, err := t.readHeader()
	if err != nil {
		return nil, err
	}

	if h.firstFreePageID != invalidPageID {
		pg, err := t.bufferPool.FetchPage(t.fileID, h.firstFreePageID)
		if err != nil {
			return nil, err
		}
		h.firstFreePageID = pg.NextFreePageID()
		if err := t.writeHeader(h); err != nil {
			return nil, err
		}
		return pg, nil
	}

	newID := h.pageCount
	h.pageCount++
	if err := t.writeHeader(h); err != nil {
		return nil, err
	}
	return t.bufferPool.NewPage(t.fileID, newID)
}

// freePage prepends pg to the free-page chain. pg must already be
// pinned by the caller, which remains responsible for unpinning it.
func (t *BPTreeIndex) freePage(pg *page.Page) error {
	h, err := t.readHeader()
	if err != nil {
		return err
	}
	pg.SetNextFreePageID(h.firstFreePageID)
	h.firstFreePageID = pg.PageID
	return t.writeHeader(h)
}

func (t *BPTreeIndex) fetchLeaf(pageID int64) (leafNode, error) {
	pg, err := t.bufferPool.FetchPage(t.fileID, pageID)
	if err != nil {
		return leafNode{}, err
	}
	return newLeafView(pg, int(t.keySizeCached())), nil
}

func (t *BPTreeIndex) fetchInternal(pageID int64) (internalNode, error) {
	pg, err := t.bufferPool.FetchPage(t.fileID, pageID)
	if err != nil {
		return internalNode{}, err
	}
	return newInternalView(pg, int(t.keySizeCached())), nil
}

func (t *BPTreeIndex) unpin(pageID int64, dirty bool) {
	_ = t.bufferPool.UnpinPage(t.fileID, pageID, dirty)
}

// keySizeCached avoids a header round trip on every node fetch; the key
// schema's width never changes after Open.
func (t *BPTreeIndex) keySizeCached() int32 {
	return int32(t.keySchema.RecordSize())
}
