package bplus

import "encoding/binary"

const (
	hdrOffRoot            = 0
	hdrOffFirstFree       = hdrOffRoot + 8
	hdrOffTreeHeight      = hdrOffFirstFree + 8
	hdrOffPageCount       = hdrOffTreeHeight + 4
	hdrOffNumEntries      = hdrOffPageCount + 8
	hdrOffKeySize         = hdrOffNumEntries + 8
	hdrOffLeafMaxSize     = hdrOffKeySize + 4
	hdrOffInternalMaxSize = hdrOffLeafMaxSize + 4
	headerSize            = hdrOffInternalMaxSize + 4
)

func decodeHeader(content []byte) indexHeader {
	return indexHeader{
		rootPageID:      int64(binary.LittleEndian.Uint64(content[hdrOffRoot:])),
		firstFreePageID: int64(binary.LittleEndian.Uint64(content[hdrOffFirstFree:])),
		treeHeight:      int32(binary.LittleEndian.Uint32(content[hdrOffTreeHeight:])),
		pageCount:       int64(binary.LittleEndian.Uint64(content[hdrOffPageCount:])),
		numEntries:      int64(binary.LittleEndian.Uint64(content[hdrOffNumEntries:])),
		keySize:         int32(binary.LittleEndian.Uint32(content[hdrOffKeySize:])),
		leafMaxSize:     int32(binary.LittleEndian.Uint32(content[hdrOffLeafMaxSize:])),
		internalMaxSize: int32(binary.LittleEndian.Uint32(content[hdrOffInternalMaxSize:])),
	}
}

func encodeHeader(content []byte, h indexHeader) {
	binary.LittleEndian.PutUint64(content[hdrOffRoot:], uint64(h.rootPageID))
	binary.LittleEndian.PutUint64(content[hdrOffFirstFree:], uint64(h.firstFreePageID))
	binary.LittleEndian.PutUint32(content[hdrOffTreeHeight:], uint32(h.treeHeight))
	binary.LittleEndian.PutUint64(content[hdrOffPageCount:], uint64(h.pageCount))
	binary.LittleEndian.PutUint64(content[hdrOffNumEntries:], uint64(h.numEntries))
	binary.LittleEndian.PutUint32(content[hdrOffKeySize:], uint32(h.keySize))
	binary.LittleEndian.PutUint32(content[hdrOffLeafMaxSize:], uint32(h.leafMaxSize))
	binary.LittleEndian.PutUint32(content[hdrOffInternalMaxSize:], uint32(h.internalMaxSize))
}

// readHeader fetches and decodes the index header page.
func (t *BPTreeIndex) readHeader() (indexHeader, error) {
	guard, err := t.bufferPool.FetchPageRead(t.fileID, HeaderPageID)
	if err != nil {
		return indexHeader{}, err
	}
	defer guard.Drop()
	return decodeHeader(guard.Data()[headerOffsetInPage():]), nil
}

// writeHeader encodes and persists the index header page.
func (t *BPTreeIndex) writeHeader(h indexHeader) error {
	guard, err := t.bufferPool.FetchPageWrite(t.fileID, HeaderPageID)
	if err != nil {
		return err
	}
	defer guard.Drop()
	encodeHeader(guard.Data()[headerOffsetInPage():], h)
	return nil
}

// headerOffsetInPage skips the generic page.HeaderSize reserved bytes;
// the header page's own free-chain link is unused (page 0 never sits on
// a free chain) but the offset is kept uniform with every other page.
func headerOffsetInPage() int { return 8 }
