package heapfile

import (
	"fmt"

	"DaemonDB/storage_engine/bufferpool"
	"DaemonDB/storage_engine/page"
	"DaemonDB/storage_engine/schema"
)

// fitSlotCapacity returns the largest number of slots whose bitmap plus
// record data fits within one page's content area.
func fitSlotCapacity(recordSize int) int {
	if recordSize <= 0 {
		return 0
	}
	m := page.ContentSize / recordSize
	for m > 0 && pageLocalHeaderSize+bitmapBytes(m)+m*recordSize > page.ContentSize {
		m--
	}
	return m
}

// Open opens the table living in fileID, initializing its header page if
// this is a brand new file (page count of zero).
func Open(fileID uint32, bufferPool *bufferpool.Manager, recordSchema *schema.Schema, model StorageModel) (*TableHeap, error) {
	recordSize := recordSchema.RecordSize()
	slots := fitSlotCapacity(recordSize)
	if slots < 1 {
		return nil, fmt.Errorf("heapfile: open file %d: %w", fileID, ErrTableFail)
	}

	h := &TableHeap{fileID: fileID, bufferPool: bufferPool, recordSchema: recordSchema, model: model}

	th, err := h.readHeader()
	if err != nil {
		return nil, fmt.Errorf("heapfile: open file %d: %w", fileID, err)
	}

	if th.pageCount == 0 {
		th = tableHeader{
			firstPageID:     invalidPageID,
			firstFreePageID: invalidPageID,
			pageCount:       1,
			numRecords:      0,
			numSlotsPerPage: int32(slots),
			recordSize:      int32(recordSize),
			model:           model,
		}
		if err := h.writeHeader(th); err != nil {
			return nil, fmt.Errorf("heapfile: initialize file %d: %w", fileID, err)
		}
		h.slotsPerPage = slots
		return h, nil
	}

	if int(th.recordSize) != recordSize {
		return nil, fmt.Errorf("heapfile: open file %d: record size %d does not match schema width %d: %w", fileID, th.recordSize, recordSize, ErrTableFail)
	}
	h.model = th.model
	h.slotsPerPage = int(th.numSlotsPerPage)
	return h, nil
}

// IsEmpty reports whether the table currently holds no records.
func (h *TableHeap) IsEmpty() (bool, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	th, err := h.readHeader()
	if err != nil {
		return false, err
	}
	return th.numRecords == 0, nil
}

// Size returns the number of live records currently stored.
func (h *TableHeap) Size() (int64, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	th, err := h.readHeader()
	if err != nil {
		return 0, err
	}
	return th.numRecords, nil
}

// Stats summarizes a table's current shape (analogous to the buffer
// pool's Stats), mainly so a caller like cmd/loadgen has something
// concrete to report after a run.
type Stats struct {
	RecordNum       int64
	PageNum         int64
	FreeChainLength int64
}

// Stats walks the free-page chain to report table-level occupancy.
func (h *TableHeap) Stats() (Stats, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	th, err := h.readHeader()
	if err != nil {
		return Stats{}, fmt.Errorf("heapfile: stats: %w", err)
	}

	var freeLen int64
	for pageID := th.firstFreePageID; pageID != invalidPageID; {
		pg, err := h.bufferPool.FetchPage(h.fileID, pageID)
		if err != nil {
			return Stats{}, fmt.Errorf("heapfile: stats: walk free chain: %w", err)
		}
		next := pg.NextFreePageID()
		_ = h.bufferPool.UnpinPage(h.fileID, pageID, false)
		freeLen++
		pageID = next
	}

	return Stats{
		RecordNum:       th.numRecords,
		PageNum:         th.pageCount - 1, // exclude the header page
		FreeChainLength: freeLen,
	}, nil
}
