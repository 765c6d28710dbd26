package heapfile

import "DaemonDB/storage_engine/page"

// allocatePage appends a brand new page to both the full-table scan
// chain and the free-page chain (both prepended at the head — scan
// order need not match insertion order). Caller must hold h.mu.
func (h *TableHeap) allocatePage() (*page.Page, error) {
	th, err := h.readHeader()
	if err != nil {
		return nil, err
	}

	newID := th.pageCount
	th.pageCount++

	pg, err := h.bufferPool.NewPage(h.fileID, newID)
	if err != nil {
		return nil, err
	}
	initPage(pg, h.slotsPerPage, th.firstPageID)
	pg.SetNextFreePageID(th.firstFreePageID)

	th.firstPageID = pg.PageID
	th.firstFreePageID = pg.PageID
	if err := h.writeHeader(th); err != nil {
		_ = h.bufferPool.UnpinPage(h.fileID, pg.PageID, true)
		return nil, err
	}
	return pg, nil
}

// popFreeListHead removes and returns the head of the free-page chain,
// or invalidPageID if the chain is empty. Caller must hold h.mu and
// must not have this page pinned already.
func (h *TableHeap) popFreeListHead() (int64, error) {
	th, err := h.readHeader()
	if err != nil {
		return invalidPageID, err
	}
	if th.firstFreePageID == invalidPageID {
		return invalidPageID, nil
	}
	pg, err := h.bufferPool.FetchPage(h.fileID, th.firstFreePageID)
	if err != nil {
		return invalidPageID, err
	}
	id := pg.PageID
	next := pg.NextFreePageID()
	_ = h.bufferPool.UnpinPage(h.fileID, id, false)

	th.firstFreePageID = next
	if err := h.writeHeader(th); err != nil {
		return invalidPageID, err
	}
	return id, nil
}

// prependFreeList adds pageID back to the head of the free-page chain.
// pageID must already be pinned by the caller.
func (h *TableHeap) prependFreeList(pg *page.Page) error {
	th, err := h.readHeader()
	if err != nil {
		return err
	}
	pg.SetNextFreePageID(th.firstFreePageID)
	th.firstFreePageID = pg.PageID
	return h.writeHeader(th)
}

func (h *TableHeap) fetchHandle(pageID int64) (PageHandle, *page.Page, error) {
	pg, err := h.bufferPool.FetchPage(h.fileID, pageID)
	if err != nil {
		return nil, nil, err
	}
	if h.model == PAX {
		return newPaxPageHandle(pg, h.recordSchema), pg, nil
	}
	return newNaryPageHandle(pg, h.recordSchema.RecordSize()), pg, nil
}

func (h *TableHeap) unpin(pageID int64, dirty bool) {
	_ = h.bufferPool.UnpinPage(h.fileID, pageID, dirty)
}
