package bplus

import (
	"fmt"

	"DaemonDB/storage_engine/bufferpool"
	"DaemonDB/storage_engine/page"
	"DaemonDB/storage_engine/schema"
)

func fitLeafMaxSize(keySize int) int {
	m := page.ContentSize / (keySize + ridSize)
	for m > 1 && leafHdrSize+(m+1)*(keySize+ridSize) > page.ContentSize {
		m--
	}
	return m
}

func fitInternalMaxSize(keySize int) int {
	m := page.ContentSize / (keySize + childSize)
	for m > 1 && internalHdrSize+(m+1)*keySize+(m+2)*childSize > page.ContentSize {
		m--
	}
	return m
}

// Open opens the B+tree index living in fileID, initializing its header
// page if this is a brand new file (page count of zero). testMode pins
// leaf/internal max size to 4, matching the fixed-shape scenarios in
// §8's testable properties; production callers pass false and let the
// max sizes be derived from how many entries fit in one page.
func Open(fileID uint32, bufferPool *bufferpool.Manager, keySchema *schema.Schema, testMode bool) (*BPTreeIndex, error) {
	keySize := keySchema.RecordSize()
	if headerSize+keySize > page.ContentSize {
		return nil, fmt.Errorf("bptree: open file %d: %w", fileID, ErrIndexFail)
	}

	t := &BPTreeIndex{fileID: fileID, bufferPool: bufferPool, keySchema: keySchema}

	h, err := t.readHeader()
	if err != nil {
		return nil, fmt.Errorf("bptree: open file %d: %w", fileID, err)
	}

	if h.pageCount == 0 {
		leafMax, internalMax := 4, 4
		if !testMode {
			leafMax = fitLeafMaxSize(keySize)
			internalMax = fitInternalMaxSize(keySize)
		}
		h = indexHeader{
			rootPageID:      invalidPageID,
			firstFreePageID: invalidPageID,
			treeHeight:      0,
			pageCount:       1,
			numEntries:      0,
			keySize:         int32(keySize),
			leafMaxSize:     int32(leafMax),
			internalMaxSize: int32(internalMax),
		}
		if err := t.writeHeader(h); err != nil {
			return nil, fmt.Errorf("bptree: initialize file %d: %w", fileID, err)
		}
		return t, nil
	}

	if int(h.keySize) != keySize {
		return nil, fmt.Errorf("bptree: open file %d: key size %d does not match schema width %d: %w", fileID, h.keySize, keySize, ErrIndexFail)
	}
	return t, nil
}

// IsEmpty reports whether the tree currently holds no root page.
func (t *BPTreeIndex) IsEmpty() (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	h, err := t.readHeader()
	if err != nil {
		return false, err
	}
	return h.rootPageID == invalidPageID, nil
}

// Size returns the number of entries currently stored.
func (t *BPTreeIndex) Size() (int64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	h, err := t.readHeader()
	if err != nil {
		return 0, err
	}
	return h.numEntries, nil
}

// GetHeight returns the tree's current height (0 for an empty tree).
func (t *BPTreeIndex) GetHeight() (int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	h, err := t.readHeader()
	if err != nil {
		return 0, err
	}
	return int(h.treeHeight), nil
}

// KeySchema returns the fixed-width field layout this tree's keys are
// encoded under, so callers (e.g. the index-scan cursor) can build
// range-bound keys without duplicating the schema.
func (t *BPTreeIndex) KeySchema() *schema.Schema {
	return t.keySchema
}
