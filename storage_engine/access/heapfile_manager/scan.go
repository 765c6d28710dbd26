package heapfile

import (
	"fmt"

	"DaemonDB/storage_engine/rid"
)

// GetFirstRID returns the first live record's RID, walking the
// full-table page chain from the header's firstPageID.
func (h *TableHeap) GetFirstRID() (rid.RID, bool, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	th, err := h.readHeader()
	if err != nil {
		return rid.Invalid, false, fmt.Errorf("heapfile: get first rid: %w", err)
	}
	return h.scanFrom(th.firstPageID, 0)
}

// GetNextRID returns the next live record's RID after r, continuing the
// scan into later pages when r's page has no more set bits.
func (h *TableHeap) GetNextRID(r rid.RID) (rid.RID, bool, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	handle, _, err := h.fetchHandle(r.PageID)
	if err != nil {
		return rid.Invalid, false, fmt.Errorf("heapfile: get next rid after %v: %w", r, err)
	}
	next := handle.NextPageID()
	h.unpin(r.PageID, false)

	if slot, ok := handle.FindFirstSetFrom(int(r.SlotID) + 1); ok {
		return rid.RID{PageID: r.PageID, SlotID: int32(slot)}, true, nil
	}
	return h.scanFrom(next, 0)
}

func (h *TableHeap) scanFrom(pageID int64, startSlot int) (rid.RID, bool, error) {
	for pageID != invalidPageID {
		handle, _, err := h.fetchHandle(pageID)
		if err != nil {
			return rid.Invalid, false, err
		}
		slot, ok := handle.FindFirstSetFrom(startSlot)
		next := handle.NextPageID()
		h.unpin(pageID, false)

		if ok {
			return rid.RID{PageID: pageID, SlotID: int32(slot)}, true, nil
		}
		pageID = next
		startSlot = 0
	}
	return rid.Invalid, false, nil
}
