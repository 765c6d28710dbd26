package heapfile

import "encoding/binary"

const (
	thOffFirstPage      = 0
	thOffFirstFreePage  = thOffFirstPage + 8
	thOffPageCount      = thOffFirstFreePage + 8
	thOffNumRecords     = thOffPageCount + 8
	thOffNumSlots       = thOffNumRecords + 8
	thOffRecordSize     = thOffNumSlots + 4
	thOffModel          = thOffRecordSize + 4
	tableHeaderPageSize = thOffModel + 1
)

func decodeTableHeader(content []byte) tableHeader {
	return tableHeader{
		firstPageID:     int64(binary.LittleEndian.Uint64(content[thOffFirstPage:])),
		firstFreePageID: int64(binary.LittleEndian.Uint64(content[thOffFirstFreePage:])),
		pageCount:       int64(binary.LittleEndian.Uint64(content[thOffPageCount:])),
		numRecords:      int64(binary.LittleEndian.Uint64(content[thOffNumRecords:])),
		numSlotsPerPage: int32(binary.LittleEndian.Uint32(content[thOffNumSlots:])),
		recordSize:      int32(binary.LittleEndian.Uint32(content[thOffRecordSize:])),
		model:           StorageModel(content[thOffModel]),
	}
}

func encodeTableHeader(content []byte, h tableHeader) {
	binary.LittleEndian.PutUint64(content[thOffFirstPage:], uint64(h.firstPageID))
	binary.LittleEndian.PutUint64(content[thOffFirstFreePage:], uint64(h.firstFreePageID))
	binary.LittleEndian.PutUint64(content[thOffPageCount:], uint64(h.pageCount))
	binary.LittleEndian.PutUint64(content[thOffNumRecords:], uint64(h.numRecords))
	binary.LittleEndian.PutUint32(content[thOffNumSlots:], uint32(h.numSlotsPerPage))
	binary.LittleEndian.PutUint32(content[thOffRecordSize:], uint32(h.recordSize))
	content[thOffModel] = byte(h.model)
}

// tableHeaderOffset skips the generic page.HeaderSize reserved bytes,
// matching the bptree index header's convention.
func tableHeaderOffset() int { return 8 }

func (h *TableHeap) readHeader() (tableHeader, error) {
	guard, err := h.bufferPool.FetchPageRead(h.fileID, HeaderPageID)
	if err != nil {
		return tableHeader{}, err
	}
	defer guard.Drop()
	return decodeTableHeader(guard.Data()[tableHeaderOffset():]), nil
}

func (h *TableHeap) writeHeader(th tableHeader) error {
	guard, err := h.bufferPool.FetchPageWrite(h.fileID, HeaderPageID)
	if err != nil {
		return err
	}
	defer guard.Drop()
	encodeTableHeader(guard.Data()[tableHeaderOffset():], th)
	return nil
}
