package heapfile

import (
	"fmt"

	"DaemonDB/storage_engine/rid"
	"DaemonDB/storage_engine/schema"
)

// InsertRecord writes data into the first free slot on the first free
// page (allocating a new page if the free chain is empty), returning
// its RID.
func (h *TableHeap) InsertRecord(data []byte) (rid.RID, error) {
	if len(data) != h.recordSchema.RecordSize() {
		return rid.Invalid, fmt.Errorf("heapfile: insert: record width %d does not match schema width %d", len(data), h.recordSchema.RecordSize())
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	th, err := h.readHeader()
	if err != nil {
		return rid.Invalid, fmt.Errorf("heapfile: insert: %w", err)
	}

	pageID := th.firstFreePageID
	if pageID == invalidPageID {
		pg, err := h.allocatePage()
		if err != nil {
			return rid.Invalid, fmt.Errorf("heapfile: insert: %w", err)
		}
		pageID = pg.PageID
		h.unpin(pageID, true)
	}

	handle, pg, err := h.fetchHandle(pageID)
	if err != nil {
		return rid.Invalid, fmt.Errorf("heapfile: insert: %w", err)
	}
	slot, ok := handle.FindFirstFree()
	if !ok {
		h.unpin(pageID, false)
		return rid.Invalid, fmt.Errorf("heapfile: insert: page %d listed as free but has no free slot", pageID)
	}
	handle.WriteSlot(slot, data)
	handle.SetOccupied(slot, true)
	full := handle.RecordNum() >= handle.NumSlots()
	nextFree := pg.NextFreePageID()
	h.unpin(pageID, true)

	th, err = h.readHeader()
	if err != nil {
		return rid.Invalid, fmt.Errorf("heapfile: insert: %w", err)
	}
	th.numRecords++
	if full && th.firstFreePageID == pageID {
		th.firstFreePageID = nextFree
	}
	if err := h.writeHeader(th); err != nil {
		return rid.Invalid, fmt.Errorf("heapfile: insert: %w", err)
	}
	return rid.RID{PageID: pageID, SlotID: int32(slot)}, nil
}

// InsertRecordAt writes data at a caller-specified RID, failing if the
// slot is already occupied.
func (h *TableHeap) InsertRecordAt(target rid.RID, data []byte) error {
	if len(data) != h.recordSchema.RecordSize() {
		return fmt.Errorf("heapfile: insert at %v: record width %d does not match schema width %d", target, len(data), h.recordSchema.RecordSize())
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	handle, pg, err := h.fetchHandle(target.PageID)
	if err != nil {
		return fmt.Errorf("heapfile: insert at %v: %w", target, err)
	}
	slot := int(target.SlotID)
	if slot < 0 || slot >= handle.NumSlots() {
		h.unpin(target.PageID, false)
		return fmt.Errorf("heapfile: insert at %v: slot out of range", target)
	}
	if handle.IsSet(slot) {
		h.unpin(target.PageID, false)
		return fmt.Errorf("heapfile: insert at %v: %w", target, ErrSlotOccupied)
	}

	handle.WriteSlot(slot, data)
	handle.SetOccupied(slot, true)
	full := handle.RecordNum() >= handle.NumSlots()
	nextFree := pg.NextFreePageID()
	h.unpin(target.PageID, true)

	th, err := h.readHeader()
	if err != nil {
		return fmt.Errorf("heapfile: insert at %v: %w", target, err)
	}
	th.numRecords++
	if full && th.firstFreePageID == target.PageID {
		th.firstFreePageID = nextFree
	} else if full {
		// Splice the page out from behind its predecessor on the free chain.
		for prevID := th.firstFreePageID; prevID != invalidPageID; {
			prev, err := h.bufferPool.FetchPage(h.fileID, prevID)
			if err != nil {
				return fmt.Errorf("heapfile: insert at %v: %w", target, err)
			}
			next := prev.NextFreePageID()
			if next == target.PageID {
				prev.SetNextFreePageID(nextFree)
				next = invalidPageID
			}
			h.unpin(prevID, next == invalidPageID)
			prevID = next
		}
	}
	return h.writeHeader(th)
}

// GetRecord returns a copy of the record at r, failing with
// ErrRecordMiss if the slot's occupancy bit is 0.
func (h *TableHeap) GetRecord(r rid.RID) ([]byte, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	handle, _, err := h.fetchHandle(r.PageID)
	if err != nil {
		return nil, fmt.Errorf("heapfile: get %v: %w", r, err)
	}
	defer h.unpin(r.PageID, false)

	slot := int(r.SlotID)
	if slot < 0 || slot >= handle.NumSlots() || !handle.IsSet(slot) {
		return nil, fmt.Errorf("heapfile: get %v: %w", r, ErrRecordMiss)
	}
	return handle.ReadSlot(slot), nil
}

// UpdateRecord overwrites the record at r in place, failing with
// ErrRecordMiss if the slot's occupancy bit is 0.
func (h *TableHeap) UpdateRecord(r rid.RID, data []byte) error {
	if len(data) != h.recordSchema.RecordSize() {
		return fmt.Errorf("heapfile: update %v: record width %d does not match schema width %d", r, len(data), h.recordSchema.RecordSize())
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	handle, _, err := h.fetchHandle(r.PageID)
	if err != nil {
		return fmt.Errorf("heapfile: update %v: %w", r, err)
	}
	slot := int(r.SlotID)
	if slot < 0 || slot >= handle.NumSlots() || !handle.IsSet(slot) {
		h.unpin(r.PageID, false)
		return fmt.Errorf("heapfile: update %v: %w", r, ErrRecordMiss)
	}
	handle.WriteSlot(slot, data)
	h.unpin(r.PageID, true)
	return nil
}

// DeleteRecord clears r's occupancy bit. If the page was previously
// full, it is prepended back onto the free-page chain.
func (h *TableHeap) DeleteRecord(r rid.RID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	handle, pg, err := h.fetchHandle(r.PageID)
	if err != nil {
		return fmt.Errorf("heapfile: delete %v: %w", r, err)
	}
	slot := int(r.SlotID)
	if slot < 0 || slot >= handle.NumSlots() || !handle.IsSet(slot) {
		h.unpin(r.PageID, false)
		return fmt.Errorf("heapfile: delete %v: %w", r, ErrRecordMiss)
	}

	wasFull := handle.RecordNum() >= handle.NumSlots()
	handle.SetOccupied(slot, false)

	th, err := h.readHeader()
	if err != nil {
		h.unpin(r.PageID, true)
		return fmt.Errorf("heapfile: delete %v: %w", r, err)
	}
	if wasFull {
		pg.SetNextFreePageID(th.firstFreePageID)
		th.firstFreePageID = r.PageID
	}
	th.numRecords--
	h.unpin(r.PageID, true)
	if err := h.writeHeader(th); err != nil {
		return fmt.Errorf("heapfile: delete %v: %w", r, err)
	}
	return nil
}

// GetChunk extracts chunkSchema's fields as per-field column arrays
// spanning every slot on pageID (occupied or not — callers filter dead
// slots via the bitmap themselves). PAX pages return direct column
// slices; NARY pages are re-assembled column-by-column on the fly.
func (h *TableHeap) GetChunk(pageID int64, chunkSchema *schema.Schema) ([][]byte, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	handle, _, err := h.fetchHandle(pageID)
	if err != nil {
		return nil, fmt.Errorf("heapfile: get chunk %d: %w", pageID, err)
	}
	defer h.unpin(pageID, false)

	numSlots := handle.NumSlots()
	cols := make([][]byte, len(chunkSchema.Fields))

	if pax, ok := handle.(paxPageHandle); ok {
		for i, f := range chunkSchema.Fields {
			idx, err := h.recordSchema.FieldIndex(f.Name)
			if err != nil {
				return nil, fmt.Errorf("heapfile: get chunk %d: %w", pageID, err)
			}
			src := pax.column(idx)
			buf := make([]byte, len(src))
			copy(buf, src)
			cols[i] = buf
		}
		return cols, nil
	}

	nary := handle.(naryPageHandle)
	fieldIdx := make([]int, len(chunkSchema.Fields))
	for i, f := range chunkSchema.Fields {
		idx, err := h.recordSchema.FieldIndex(f.Name)
		if err != nil {
			return nil, fmt.Errorf("heapfile: get chunk %d: %w", pageID, err)
		}
		fieldIdx[i] = idx
		cols[i] = make([]byte, numSlots*f.Size)
	}
	for slot := 0; slot < numSlots; slot++ {
		rec := nary.ReadSlot(slot)
		for i, f := range chunkSchema.Fields {
			fb := h.recordSchema.FieldBytes(rec, fieldIdx[i])
			copy(cols[i][slot*f.Size:(slot+1)*f.Size], fb)
		}
	}
	return cols, nil
}
